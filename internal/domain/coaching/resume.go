package coaching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Resume struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename    string    `gorm:"column:filename" json:"filename"`
	ContentType string    `gorm:"column:content_type" json:"content_type"`
	ObjectKey   string    `gorm:"column:object_key" json:"object_key,omitempty"`
	Text        string    `gorm:"column:text;type:text;not null" json:"-"`
	Chars       int       `gorm:"column:chars;not null" json:"chars"`
	Pages       int       `gorm:"column:pages" json:"pages"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Resume) TableName() string { return "resume" }

func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
