package coaching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisResult is immutable once written. The latest row for a (user, role)
// supersedes older ones.
type AnalysisResult struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_analysis_user_role,priority:1" json:"user_id"`
	TargetRole string     `gorm:"column:target_role;not null;index:idx_analysis_user_role,priority:2" json:"target_role"`
	ResumeID   *uuid.UUID `gorm:"type:uuid;column:resume_id" json:"resume_id,omitempty"`

	Score      *int           `gorm:"column:score" json:"score"`
	Gaps       datatypes.JSON `gorm:"column:gaps" json:"gaps"`
	Strengths  datatypes.JSON `gorm:"column:strengths" json:"strengths"`
	Summary    string         `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Selected   *bool          `gorm:"column:selected" json:"selected,omitempty"`
	Partial    bool           `gorm:"column:partial;not null;default:false" json:"partial"`
	Unresolved datatypes.JSON `gorm:"column:unresolved" json:"unresolved,omitempty"`

	Provider string `gorm:"column:provider" json:"provider,omitempty"`
	Model    string `gorm:"column:model" json:"model,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (AnalysisResult) TableName() string { return "analysis_result" }

func (a *AnalysisResult) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *AnalysisResult) GapList() []string { return StringList(a.Gaps) }
func (a *AnalysisResult) StrengthList() []string { return StringList(a.Strengths) }
func (a *AnalysisResult) UnresolvedList() []string { return StringList(a.Unresolved) }
