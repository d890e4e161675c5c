package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AchievementCourseCompletion = "course_completion"
const AchievementPhaseCompletion = "phase_completion"

type LearningSession struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_session_user_date,priority:1" json:"user_id"`
	SkillName      string    `gorm:"column:skill_name;not null" json:"skill_name"`
	SessionDate    time.Time `gorm:"column:session_date;not null;index:idx_session_user_date,priority:2" json:"session_date"`
	MinutesStudied int       `gorm:"column:minutes_studied;not null" json:"minutes_studied"`
	Notes          string    `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (LearningSession) TableName() string { return "learning_session" }

func (s *LearningSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Achievement names are unique per user; awarding twice is a no-op.
type Achievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_achievement_user_name,unique,priority:1" json:"user_id"`
	Type        string    `gorm:"column:type;not null" json:"type"`
	Name        string    `gorm:"column:name;not null;index:idx_achievement_user_name,unique,priority:2" json:"name"`
	Description string    `gorm:"column:description" json:"description"`

	EarnedAt time.Time `gorm:"column:earned_at;not null;autoCreateTime" json:"earned_at"`
}

func (Achievement) TableName() string { return "achievement" }

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
