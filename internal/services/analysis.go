package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/interpret"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/docextract"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/platform/objectstore"
)

// Upload is a résumé file as received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type AnalysisOutcome struct {
	Analysis *types.AnalysisResult `json:"analysis"`
	Plan     *types.LearningPlan   `json:"plan,omitempty"`
	// PlanError is set when the analysis was saved but no plan could be produced.
	PlanError string `json:"plan_error,omitempty"`
	ResumeID  string `json:"resume_id"`
	Pages     int    `json:"pages,omitempty"`
	Truncated bool   `json:"truncated"`
}

type AnalysisService interface {
	AnalyzeUpload(ctx context.Context, targetRole string, up Upload) (*AnalysisOutcome, error)
	AnalyzeText(ctx context.Context, targetRole, resumeText string) (*AnalysisOutcome, error)
	GetLatest(ctx context.Context, targetRole string) (*types.AnalysisResult, error)
}

type analysisService struct {
	db           *gorm.DB
	log          *logger.Logger
	pipeline     *Pipeline
	resumeRepo   repos.ResumeRepo
	analysisRepo repos.AnalysisRepo
	planRepo     repos.PlanRepo
	blobs        objectstore.Store
}

func NewAnalysisService(
	db *gorm.DB,
	log *logger.Logger,
	pipeline *Pipeline,
	resumeRepo repos.ResumeRepo,
	analysisRepo repos.AnalysisRepo,
	planRepo repos.PlanRepo,
	blobs objectstore.Store,
) AnalysisService {
	return &analysisService{
		db:           db,
		log:          log.With("service", "AnalysisService"),
		pipeline:     pipeline,
		resumeRepo:   resumeRepo,
		analysisRepo: analysisRepo,
		planRepo:     planRepo,
		blobs:        blobs,
	}
}

func (s *analysisService) AnalyzeUpload(ctx context.Context, targetRole string, up Upload) (*AnalysisOutcome, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	role := s.pipeline.CanonicalRole(strings.TrimSpace(targetRole))
	if role == "" {
		return nil, invalid("target_role is required")
	}

	doc, err := docextract.Extract(up.Filename, up.ContentType, up.Data)
	if err != nil {
		reason := "error"
		var ee *docextract.ExtractionError
		if errors.As(err, &ee) {
			reason = ee.Reason
		}
		observability.Current().IncExtraction(docextract.Detect(up.Filename, up.ContentType, up.Data), reason)
		s.log.Warn("resume extraction failed", "user_id", rd.UserID.String(), "reason", reason)
		return nil, err
	}
	observability.Current().IncExtraction(doc.Format, "ok")

	resume := &types.Resume{
		UserID:      rd.UserID,
		Filename:    up.Filename,
		ContentType: up.ContentType,
		Text:        doc.Text,
		Chars:       utf8.RuneCountInString(doc.Text),
		Pages:       doc.Pages,
	}
	if s.blobs != nil {
		key := objectstore.ResumeKey(rd.UserID, up.Filename, time.Now())
		if err := s.blobs.Put(ctx, key, up.Data, up.ContentType); err != nil {
			return nil, &repos.StoreError{Op: "put resume file", Err: err}
		}
		resume.ObjectKey = key
	}
	outcome, err := s.analyze(ctx, rd.UserID, role, resume)
	if err != nil && resume.ObjectKey != "" {
		// Nothing references the file once the analysis is not saved.
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), resume.ObjectKey); delErr != nil {
			s.log.Warn("removing unsaved resume file failed", "user_id", rd.UserID.String(), "error", delErr)
		}
	}
	return outcome, err
}

func (s *analysisService) AnalyzeText(ctx context.Context, targetRole, resumeText string) (*AnalysisOutcome, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	role := s.pipeline.CanonicalRole(strings.TrimSpace(targetRole))
	if role == "" {
		return nil, invalid("target_role is required")
	}
	text := strings.TrimSpace(resumeText)
	if text == "" {
		return nil, invalid("resume_text is required")
	}
	resume := &types.Resume{
		UserID:      rd.UserID,
		Filename:    "pasted.txt",
		ContentType: "text/plain",
		Text:        text,
		Chars:       utf8.RuneCountInString(text),
	}
	return s.analyze(ctx, rd.UserID, role, resume)
}

// analyze runs both model rounds before opening the transaction so the single
// SQLite writer is never held across a model call.
func (s *analysisService) analyze(ctx context.Context, userID uuid.UUID, role string, resume *types.Resume) (*AnalysisOutcome, error) {
	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:       coaching.KindAnalysis,
		TargetRole: role,
		ResumeText: resume.Text,
	})
	if err != nil {
		return nil, err
	}
	res := out.Result
	analysis := &types.AnalysisResult{
		UserID:     userID,
		TargetRole: role,
		Score:      res.Score,
		Gaps:       coaching.Strings(res.Gaps),
		Strengths:  coaching.Strings(res.Strengths),
		Summary:    res.Summary,
		Selected:   res.Selected,
		Partial:    res.Partial,
		Unresolved: coaching.Strings(res.Unresolved),
		Provider:   out.Completion.Provider,
		Model:      out.Completion.Model,
	}

	var plan *types.LearningPlan
	planOut, planErr := s.pipeline.Run(ctx, prompts.Input{
		Kind:       coaching.KindLearningPlan,
		TargetRole: role,
		ResumeText: resume.Text,
		Gaps:       res.Gaps,
		Strengths:  res.Strengths,
	})
	if planErr == nil {
		plan = &types.LearningPlan{
			UserID:     userID,
			TargetRole: role,
			Partial:    planOut.Result.Partial,
			Phases:     planFromResult(planOut.Result),
		}
	} else {
		s.log.Warn("learning plan not produced", "user_id", userID.String(), "role", role, "error", planErr)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.resumeRepo.Create(ctx, tx, resume); err != nil {
			return err
		}
		analysis.ResumeID = &resume.ID
		if _, err := s.analysisRepo.Create(ctx, tx, analysis); err != nil {
			return err
		}
		if plan != nil {
			plan.AnalysisID = analysis.ID
			if _, err := s.planRepo.Create(ctx, tx, plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("saving analysis failed", "user_id", userID.String(), "error", err)
		return nil, err
	}

	_, truncated := prompts.TruncateResume(resume.Text)
	outcome := &AnalysisOutcome{
		Analysis:  analysis,
		Plan:      plan,
		ResumeID:  resume.ID.String(),
		Pages:     resume.Pages,
		Truncated: truncated,
	}
	if planErr != nil {
		outcome.PlanError = planErrorMessage(planErr)
	}
	s.log.Info("analysis saved",
		"user_id", userID.String(),
		"role", role,
		"partial", analysis.Partial,
		"plan", plan != nil,
	)
	return outcome, nil
}

func (s *analysisService) GetLatest(ctx context.Context, targetRole string) (*types.AnalysisResult, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	role := s.pipeline.CanonicalRole(strings.TrimSpace(targetRole))
	a, err := s.analysisRepo.GetLatest(ctx, nil, rd.UserID, role)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("analysis")
		}
		return nil, err
	}
	return a, nil
}

func planErrorMessage(err error) string {
	var pe *interpret.ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("the learning plan could not be read from the model output (%s)", pe.Reason)
	}
	return "the learning plan could not be generated right now, try again later"
}
