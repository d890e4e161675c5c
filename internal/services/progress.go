package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/domain/progress"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

const (
	DefaultSessionDays = 30
	MaxSessionMinutes  = 24 * 60
)

// ModuleRef addresses a module of the caller's latest plan for a role. Module
// is either the 1-based position inside the phase or the module name.
type ModuleRef struct {
	TargetRole string `json:"target_role"`
	Phase      int    `json:"phase"`
	Module     string `json:"module"`
}

type ProgressUpdate struct {
	ModuleRef
	Completed bool `json:"completed"`
}

type ModuleProgressUpdate struct {
	ModuleRef
	Percent int     `json:"progress_percent"`
	Notes   *string `json:"notes,omitempty"`
}

type SessionInput struct {
	TargetRole string     `json:"target_role"`
	SkillName  string     `json:"skill_name"`
	Minutes    int        `json:"minutes_studied"`
	Notes      string     `json:"notes"`
	Date       *time.Time `json:"session_date,omitempty"`
}

type ProgressResult struct {
	Module  *types.PlanModule    `json:"module"`
	Awarded []*types.Achievement `json:"awarded,omitempty"`
}

type PhaseProgress struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

type ProgressSummary struct {
	TargetRole       string                   `json:"target_role,omitempty"`
	Plan             *types.LearningPlan      `json:"plan,omitempty"`
	Phases           []PhaseProgress          `json:"phases"`
	CompletedModules int                      `json:"completed_modules"`
	TotalModules     int                      `json:"total_modules"`
	OverallPercent   int                      `json:"overall_percent"`
	TimeSpentMinutes int                      `json:"time_spent_minutes"`
	Sessions         []*types.LearningSession `json:"sessions"`
	Achievements     []*types.Achievement     `json:"achievements"`
}

type ProgressService interface {
	// UpdateProgress is idempotent and last-writer-wins.
	UpdateProgress(ctx context.Context, in ProgressUpdate) (*ProgressResult, error)
	UpdateModuleProgress(ctx context.Context, in ModuleProgressUpdate) (*ProgressResult, error)
	LogSession(ctx context.Context, in SessionInput) (*types.LearningSession, error)
	Summary(ctx context.Context, targetRole string, days int) (*ProgressSummary, error)
}

type progressService struct {
	db              *gorm.DB
	log             *logger.Logger
	planRepo        repos.PlanRepo
	sessionRepo     repos.LearningSessionRepo
	achievementRepo repos.AchievementRepo
	now             func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	planRepo repos.PlanRepo,
	sessionRepo repos.LearningSessionRepo,
	achievementRepo repos.AchievementRepo,
) ProgressService {
	return &progressService{
		db:              db,
		log:             log.With("service", "ProgressService"),
		planRepo:        planRepo,
		sessionRepo:     sessionRepo,
		achievementRepo: achievementRepo,
		now:             time.Now,
	}
}

func (s *progressService) UpdateProgress(ctx context.Context, in ProgressUpdate) (*ProgressResult, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRef(in.ModuleRef); err != nil {
		return nil, err
	}
	var out *ProgressResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mod, err := s.findModule(ctx, tx, rd.UserID, in.ModuleRef)
		if err != nil {
			return err
		}
		if err := s.planRepo.SetModuleCompleted(ctx, tx, mod.ID, in.Completed, s.now()); err != nil {
			return err
		}
		out, err = s.afterChange(ctx, tx, rd.UserID, mod)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *progressService) UpdateModuleProgress(ctx context.Context, in ModuleProgressUpdate) (*ProgressResult, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRef(in.ModuleRef); err != nil {
		return nil, err
	}
	if in.Percent < 0 || in.Percent > 100 {
		return nil, invalid("progress_percent must be between 0 and 100")
	}
	var out *ProgressResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mod, err := s.findModule(ctx, tx, rd.UserID, in.ModuleRef)
		if err != nil {
			return err
		}
		complete := in.Percent >= 100
		if err := s.planRepo.SetModuleCompleted(ctx, tx, mod.ID, complete, s.now()); err != nil {
			return err
		}
		if err := s.planRepo.UpdateModuleProgress(ctx, tx, mod.ID, in.Percent, in.Notes); err != nil {
			return err
		}
		out, err = s.afterChange(ctx, tx, rd.UserID, mod)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// afterChange reloads the module and awards module and phase achievements.
func (s *progressService) afterChange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, mod *types.PlanModule) (*ProgressResult, error) {
	siblings, err := s.planRepo.ListModulesByPhase(ctx, tx, mod.PhaseID)
	if err != nil {
		return nil, err
	}
	res := &ProgressResult{}
	allDone := len(siblings) > 0
	for _, m := range siblings {
		if m.ID == mod.ID {
			res.Module = m
		}
		if !m.Completed {
			allDone = false
		}
	}
	if res.Module == nil {
		return nil, apierr.NotFound("module")
	}
	if !res.Module.Completed {
		return res, nil
	}

	award := func(kind, name, desc string) error {
		a := &types.Achievement{UserID: userID, Type: kind, Name: name, Description: desc}
		created, err := s.achievementRepo.Award(ctx, tx, a)
		if err != nil {
			return err
		}
		if created {
			observability.Current().IncAchievement()
			res.Awarded = append(res.Awarded, a)
		}
		return nil
	}
	name := res.Module.Name
	if err := award(progress.AchievementCourseCompletion,
		"Completed "+name,
		fmt.Sprintf("Successfully completed %s", name)); err != nil {
		return nil, err
	}
	if allDone {
		phase, err := s.planRepo.GetPhase(ctx, tx, mod.PhaseID)
		if err != nil {
			return nil, err
		}
		if err := award(progress.AchievementPhaseCompletion,
			fmt.Sprintf("Completed Phase %d: %s", phase.Position, phase.Title),
			fmt.Sprintf("Finished every module of phase %d", phase.Position)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *progressService) findModule(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref ModuleRef) (*types.PlanModule, error) {
	plan, err := s.planRepo.GetLatest(ctx, tx, userID, strings.TrimSpace(ref.TargetRole))
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("learning plan")
		}
		return nil, err
	}
	mod, err := s.planRepo.FindModule(ctx, tx, plan.ID, ref.Phase, ref.Module)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound(fmt.Sprintf("module %q in phase %d", ref.Module, ref.Phase))
		}
		return nil, err
	}
	return mod, nil
}

func validateRef(ref ModuleRef) error {
	if ref.Phase < 1 {
		return invalid("phase must be a positive phase number")
	}
	if strings.TrimSpace(ref.Module) == "" {
		return invalid("module is required")
	}
	return nil
}

func (s *progressService) LogSession(ctx context.Context, in SessionInput) (*types.LearningSession, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	skill := strings.TrimSpace(in.SkillName)
	if skill == "" {
		return nil, invalid("skill_name is required")
	}
	if in.Minutes <= 0 || in.Minutes > MaxSessionMinutes {
		return nil, invalid("minutes_studied must be between 1 and %d", MaxSessionMinutes)
	}
	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	session := &types.LearningSession{
		UserID:         rd.UserID,
		SkillName:      skill,
		SessionDate:    date,
		MinutesStudied: in.Minutes,
		Notes:          strings.TrimSpace(in.Notes),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.sessionRepo.Create(ctx, tx, session); err != nil {
			return err
		}
		plan, err := s.planRepo.GetLatest(ctx, tx, rd.UserID, strings.TrimSpace(in.TargetRole))
		if err != nil {
			if repos.IsNotFound(err) {
				return nil
			}
			return err
		}
		mods, err := s.planRepo.FindModulesByName(ctx, tx, plan.ID, skill)
		if err != nil {
			return err
		}
		if len(mods) == 0 {
			return nil
		}
		return s.planRepo.AddModuleTime(ctx, tx, mods[0].ID, in.Minutes)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *progressService) Summary(ctx context.Context, targetRole string, days int) (*ProgressSummary, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultSessionDays
	}
	out := &ProgressSummary{Phases: []PhaseProgress{}}

	plan, err := s.planRepo.GetLatest(ctx, nil, rd.UserID, strings.TrimSpace(targetRole))
	switch {
	case err == nil:
		out.Plan = plan
		out.TargetRole = plan.TargetRole
		for _, ph := range plan.Phases {
			pp := PhaseProgress{Position: ph.Position, Title: ph.Title, Total: len(ph.Modules)}
			for _, m := range ph.Modules {
				if m.Completed {
					pp.Completed++
				}
				out.TimeSpentMinutes += m.TimeSpentMinutes
			}
			pp.Percent = percent(pp.Completed, pp.Total)
			out.CompletedModules += pp.Completed
			out.TotalModules += pp.Total
			out.Phases = append(out.Phases, pp)
		}
		out.OverallPercent = percent(out.CompletedModules, out.TotalModules)
	case repos.IsNotFound(err):
	default:
		return nil, err
	}

	since := s.now().AddDate(0, 0, -days)
	sessions, err := s.sessionRepo.ListSince(ctx, nil, rd.UserID, since)
	if err != nil {
		return nil, err
	}
	achievements, err := s.achievementRepo.List(ctx, nil, rd.UserID)
	if err != nil {
		return nil, err
	}
	out.Sessions = sessions
	out.Achievements = achievements
	return out, nil
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * 100 / total
}
