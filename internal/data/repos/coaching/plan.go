package coaching

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type PlanRepo interface {
	// Create persists the plan with its phases and modules. It fails with
	// storeerr.ErrReferentialIntegrity unless plan.AnalysisID names an analysis
	// owned by the same user for the same role.
	Create(ctx context.Context, tx *gorm.DB, plan *types.LearningPlan) (*types.LearningPlan, error)
	GetLatest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetRole string) (*types.LearningPlan, error)
	FindModule(ctx context.Context, tx *gorm.DB, planID uuid.UUID, phasePosition int, module string) (*types.PlanModule, error)
	FindModulesByName(ctx context.Context, tx *gorm.DB, planID uuid.UUID, name string) ([]*types.PlanModule, error)
	ListModulesByPhase(ctx context.Context, tx *gorm.DB, phaseID uuid.UUID) ([]*types.PlanModule, error)
	GetPhase(ctx context.Context, tx *gorm.DB, phaseID uuid.UUID) (*types.PlanPhase, error)
	SetModuleCompleted(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, completed bool, at time.Time) error
	UpdateModuleProgress(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, percent int, notes *string) error
	AddModuleTime(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, minutes int) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (pr *planRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.LearningPlan) (*types.LearningPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if plan == nil || plan.UserID == uuid.Nil || plan.TargetRole == "" || plan.AnalysisID == uuid.Nil {
		return nil, storeerr.Wrap("create plan", storeerr.ErrReferentialIntegrity)
	}

	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var count int64
		if err := txx.Model(&types.AnalysisResult{}).
			Where("id = ? AND user_id = ? AND target_role = ?", plan.AnalysisID, plan.UserID, plan.TargetRole).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: no analysis %s for user/role", storeerr.ErrReferentialIntegrity, plan.AnalysisID)
		}
		if err := txx.Create(plan).Error; err != nil {
			return err
		}
		for i, phase := range plan.Phases {
			phase.PlanID = plan.ID
			phase.Position = i + 1
			if err := txx.Create(phase).Error; err != nil {
				return err
			}
			for j, mod := range phase.Modules {
				mod.PlanID = plan.ID
				mod.PhaseID = phase.ID
				mod.Position = j + 1
				if err := txx.Create(mod).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeerr.Wrap("create plan", err)
	}
	return plan, nil
}

func (pr *planRepo) GetLatest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetRole string) (*types.LearningPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if targetRole != "" {
		q = q.Where("target_role = ?", targetRole)
	}
	var plan types.LearningPlan
	if err := q.Order("created_at DESC").First(&plan).Error; err != nil {
		return nil, storeerr.Wrap("get latest plan", err)
	}

	var phases []*types.PlanPhase
	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", plan.ID).
		Order("position ASC").
		Find(&phases).Error; err != nil {
		return nil, storeerr.Wrap("load plan phases", err)
	}
	var modules []*types.PlanModule
	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", plan.ID).
		Order("position ASC").
		Find(&modules).Error; err != nil {
		return nil, storeerr.Wrap("load plan modules", err)
	}
	byPhase := make(map[uuid.UUID]*types.PlanPhase, len(phases))
	for _, ph := range phases {
		ph.Modules = []*types.PlanModule{}
		byPhase[ph.ID] = ph
	}
	for _, m := range modules {
		if ph := byPhase[m.PhaseID]; ph != nil {
			ph.Modules = append(ph.Modules, m)
		}
	}
	plan.Phases = phases
	return &plan, nil
}

// FindModule resolves a module by phase position and either its 1-based
// position ("2") or its name (case-insensitive).
func (pr *planRepo) FindModule(ctx context.Context, tx *gorm.DB, planID uuid.UUID, phasePosition int, module string) (*types.PlanModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var phase types.PlanPhase
	if err := transaction.WithContext(ctx).
		Where("plan_id = ? AND position = ?", planID, phasePosition).
		First(&phase).Error; err != nil {
		return nil, storeerr.Wrap("find phase", err)
	}

	q := transaction.WithContext(ctx).Where("phase_id = ?", phase.ID)
	module = strings.TrimSpace(module)
	if pos, convErr := strconv.Atoi(module); convErr == nil {
		q = q.Where("position = ?", pos)
	} else {
		q = q.Where("LOWER(name) = ?", strings.ToLower(module))
	}
	var m types.PlanModule
	if err := q.First(&m).Error; err != nil {
		return nil, storeerr.Wrap("find module", err)
	}
	return &m, nil
}

func (pr *planRepo) FindModulesByName(ctx context.Context, tx *gorm.DB, planID uuid.UUID, name string) ([]*types.PlanModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var out []*types.PlanModule
	if err := transaction.WithContext(ctx).
		Where("plan_id = ? AND LOWER(name) = ?", planID, strings.ToLower(strings.TrimSpace(name))).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("find modules by name", err)
	}
	return out, nil
}

func (pr *planRepo) ListModulesByPhase(ctx context.Context, tx *gorm.DB, phaseID uuid.UUID) ([]*types.PlanModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var out []*types.PlanModule
	if err := transaction.WithContext(ctx).
		Where("phase_id = ?", phaseID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("list phase modules", err)
	}
	return out, nil
}

func (pr *planRepo) GetPhase(ctx context.Context, tx *gorm.DB, phaseID uuid.UUID) (*types.PlanPhase, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var ph types.PlanPhase
	if err := transaction.WithContext(ctx).Where("id = ?", phaseID).First(&ph).Error; err != nil {
		return nil, storeerr.Wrap("get phase", err)
	}
	return &ph, nil
}

// SetModuleCompleted is last-writer-wins. completed_at is only stamped on the
// false -> true transition so repeating the same update leaves the row as is.
func (pr *planRepo) SetModuleCompleted(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, completed bool, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var updates map[string]any
	q := transaction.WithContext(ctx).Model(&types.PlanModule{}).Where("id = ?", moduleID)
	if completed {
		q = q.Where("completed = ?", false)
		updates = map[string]any{
			"completed":        true,
			"completed_at":     at,
			"progress_percent": 100,
		}
	} else {
		q = q.Where("completed = ?", true)
		updates = map[string]any{
			"completed":    false,
			"completed_at": nil,
		}
	}
	if err := q.Updates(updates).Error; err != nil {
		return storeerr.Wrap("set module completed", err)
	}
	return nil
}

func (pr *planRepo) UpdateModuleProgress(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, percent int, notes *string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	updates := map[string]any{"progress_percent": percent}
	if notes != nil {
		updates["notes"] = *notes
	}
	if err := transaction.WithContext(ctx).
		Model(&types.PlanModule{}).
		Where("id = ?", moduleID).
		Updates(updates).Error; err != nil {
		return storeerr.Wrap("update module progress", err)
	}
	return nil
}

func (pr *planRepo) AddModuleTime(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, minutes int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.PlanModule{}).
		Where("id = ?", moduleID).
		Update("time_spent_minutes", gorm.Expr("time_spent_minutes + ?", minutes)).Error; err != nil {
		return storeerr.Wrap("add module time", err)
	}
	return nil
}
