package admin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

type BulkRun struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"admin_id"`
	TargetRole string     `gorm:"column:target_role;not null" json:"target_role"`
	Source     string     `gorm:"column:source;not null" json:"source"`
	Total      int        `gorm:"column:total;not null;default:0" json:"total"`
	Succeeded  int        `gorm:"column:succeeded;not null;default:0" json:"succeeded"`
	Failed     int        `gorm:"column:failed;not null;default:0" json:"failed"`
	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (BulkRun) TableName() string { return "bulk_run" }

func (r *BulkRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BulkResult is one item of a batch. UserID is nil for file-based items.
type BulkResult struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RunID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_bulk_result_run_pos,unique,priority:1" json:"run_id"`
	Position   int            `gorm:"column:position;not null;index:idx_bulk_result_run_pos,unique,priority:2" json:"position"`
	UserID     *uuid.UUID     `gorm:"type:uuid;column:user_id;index" json:"user_id,omitempty"`
	AnalysisID *uuid.UUID     `gorm:"type:uuid;column:analysis_id" json:"analysis_id,omitempty"`
	Label      string         `gorm:"column:label;not null" json:"label"`
	Status     string         `gorm:"column:status;not null" json:"status"`
	Score      *int           `gorm:"column:score" json:"score"`
	Selected   bool           `gorm:"column:selected;not null;default:false" json:"selected"`
	Partial    bool           `gorm:"column:partial;not null;default:false" json:"partial"`
	Gaps       datatypes.JSON `gorm:"column:gaps" json:"gaps"`
	Strengths  datatypes.JSON `gorm:"column:strengths" json:"strengths"`
	Error      string         `gorm:"column:error;type:text" json:"error,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (BulkResult) TableName() string { return "bulk_result" }

func (r *BulkResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
