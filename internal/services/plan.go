package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type PlanService interface {
	// Regenerate builds a new plan from the latest analysis for the role.
	// skillsGap, when given, replaces the analysis gaps as the plan's input.
	Regenerate(ctx context.Context, targetRole string, skillsGap []string) (*types.LearningPlan, error)
	GetLatest(ctx context.Context, targetRole string) (*types.LearningPlan, error)
}

type planService struct {
	db           *gorm.DB
	log          *logger.Logger
	pipeline     *Pipeline
	resumeRepo   repos.ResumeRepo
	analysisRepo repos.AnalysisRepo
	planRepo     repos.PlanRepo
}

func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	pipeline *Pipeline,
	resumeRepo repos.ResumeRepo,
	analysisRepo repos.AnalysisRepo,
	planRepo repos.PlanRepo,
) PlanService {
	return &planService{
		db:           db,
		log:          log.With("service", "PlanService"),
		pipeline:     pipeline,
		resumeRepo:   resumeRepo,
		analysisRepo: analysisRepo,
		planRepo:     planRepo,
	}
}

func (s *planService) Regenerate(ctx context.Context, targetRole string, skillsGap []string) (*types.LearningPlan, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	role := s.pipeline.CanonicalRole(strings.TrimSpace(targetRole))
	if role == "" {
		return nil, invalid("target_role is required")
	}

	analysis, err := s.analysisRepo.GetLatest(ctx, nil, rd.UserID, role)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, &repos.StoreError{
				Op:  "regenerate plan",
				Err: fmt.Errorf("%w: analyze a résumé for %q first", repos.ErrReferentialIntegrity, role),
			}
		}
		return nil, err
	}

	gaps := cleanList(skillsGap)
	if len(gaps) == 0 {
		gaps = analysis.GapList()
	}
	var resumeText string
	if analysis.ResumeID != nil {
		if r, err := s.resumeRepo.GetByID(ctx, nil, *analysis.ResumeID); err == nil {
			resumeText = r.Text
		} else if !repos.IsNotFound(err) {
			return nil, err
		}
	}

	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:       coaching.KindLearningPlan,
		TargetRole: role,
		ResumeText: resumeText,
		Gaps:       gaps,
		Strengths:  analysis.StrengthList(),
	})
	if err != nil {
		return nil, err
	}

	plan := &types.LearningPlan{
		UserID:     rd.UserID,
		TargetRole: role,
		AnalysisID: analysis.ID,
		Partial:    out.Result.Partial,
		Phases:     planFromResult(out.Result),
	}
	if _, err := s.planRepo.Create(ctx, nil, plan); err != nil {
		return nil, err
	}
	s.log.Info("learning plan regenerated", "user_id", rd.UserID.String(), "role", role, "phases", len(plan.Phases))
	return plan, nil
}

func (s *planService) GetLatest(ctx context.Context, targetRole string) (*types.LearningPlan, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	role := s.pipeline.CanonicalRole(strings.TrimSpace(targetRole))
	plan, err := s.planRepo.GetLatest(ctx, nil, rd.UserID, role)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("learning plan")
		}
		return nil, err
	}
	return plan, nil
}

func cleanList(items []string) []string {
	var out []string
	for _, it := range items {
		if v := strings.TrimSpace(it); v != "" {
			out = append(out, v)
		}
	}
	return out
}
