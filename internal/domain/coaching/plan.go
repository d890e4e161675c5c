package coaching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LearningPlan is derived from an AnalysisResult with the same (user, role).
// Its structure is fixed at creation; only module progress fields change.
type LearningPlan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_plan_user_role,priority:1" json:"user_id"`
	TargetRole string    `gorm:"column:target_role;not null;index:idx_plan_user_role,priority:2" json:"target_role"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Partial    bool      `gorm:"column:partial;not null;default:false" json:"partial"`

	Phases []*PlanPhase `gorm:"-" json:"phases"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LearningPlan) TableName() string { return "learning_plan" }

func (p *LearningPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PlanPhase struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID   uuid.UUID `gorm:"type:uuid;not null;index:idx_phase_plan_pos,unique,priority:1" json:"plan_id"`
	Position int       `gorm:"column:position;not null;index:idx_phase_plan_pos,unique,priority:2" json:"position"`
	Title    string    `gorm:"column:title" json:"title"`

	Modules []*PlanModule `gorm:"-" json:"modules"`
}

func (PlanPhase) TableName() string { return "plan_phase" }

func (p *PlanPhase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PlanModule struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID   uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`
	PhaseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_module_phase_pos,unique,priority:1" json:"phase_id"`
	Position int       `gorm:"column:position;not null;index:idx_module_phase_pos,unique,priority:2" json:"position"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	Resource string    `gorm:"column:resource" json:"resource,omitempty"`

	Completed        bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	ProgressPercent  int        `gorm:"column:progress_percent;not null;default:0" json:"progress_percent"`
	TimeSpentMinutes int        `gorm:"column:time_spent_minutes;not null;default:0" json:"time_spent_minutes"`
	Notes            string     `gorm:"column:notes;type:text" json:"notes,omitempty"`

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (PlanModule) TableName() string { return "plan_module" }

func (m *PlanModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Status mirrors the not_started / in_progress / completed buckets shown to users.
func (m *PlanModule) Status() string {
	switch {
	case m.Completed:
		return "completed"
	case m.ProgressPercent > 0 || m.TimeSpentMinutes > 0:
		return "in_progress"
	default:
		return "not_started"
	}
}
