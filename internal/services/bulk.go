package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/docextract"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

const (
	BulkSourceUsers = "users"
	BulkSourceFiles = "files"

	DefaultSelectThreshold = 75
	MaxBulkItems           = 200
)

type BulkReport struct {
	Run       *types.BulkRun      `json:"run"`
	Total     int                 `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Matched   int                 `json:"matched"`
	MatchRate float64             `json:"match_rate"`
	Results   []*types.BulkResult `json:"results"`
}

type BulkService interface {
	RunForUsers(ctx context.Context, targetRole string, userIDs []uuid.UUID) (*BulkReport, error)
	RunForFiles(ctx context.Context, targetRole string, files []Upload) (*BulkReport, error)
	GetReport(ctx context.Context, runID uuid.UUID) (*BulkReport, error)
}

type bulkService struct {
	db           *gorm.DB
	log          *logger.Logger
	pipeline     *Pipeline
	userRepo     repos.UserRepo
	resumeRepo   repos.ResumeRepo
	analysisRepo repos.AnalysisRepo
	bulkRepo     repos.BulkRepo
	threshold    int
}

func NewBulkService(
	db *gorm.DB,
	log *logger.Logger,
	pipeline *Pipeline,
	userRepo repos.UserRepo,
	resumeRepo repos.ResumeRepo,
	analysisRepo repos.AnalysisRepo,
	bulkRepo repos.BulkRepo,
	selectThreshold int,
) BulkService {
	if selectThreshold <= 0 || selectThreshold > 100 {
		selectThreshold = DefaultSelectThreshold
	}
	return &bulkService{
		db:           db,
		log:          log.With("service", "BulkService"),
		pipeline:     pipeline,
		userRepo:     userRepo,
		resumeRepo:   resumeRepo,
		analysisRepo: analysisRepo,
		bulkRepo:     bulkRepo,
		threshold:    selectThreshold,
	}
}

// bulkItem is one unit of a batch. text is empty when loadErr is set.
type bulkItem struct {
	label   string
	userID  *uuid.UUID
	text    string
	loadErr error
}

func (s *bulkService) RunForUsers(ctx context.Context, targetRole string, userIDs []uuid.UUID) (*BulkReport, error) {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	role, err := s.validate(targetRole, len(userIDs))
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	items := make([]bulkItem, 0, len(userIDs))
	for _, id := range userIDs {
		item := bulkItem{label: id.String(), userID: &id}
		u := byID[id]
		if u == nil {
			item.loadErr = errors.New("user not found")
			items = append(items, item)
			continue
		}
		item.label = u.Username
		resume, err := s.resumeRepo.GetLatestByUser(ctx, nil, id)
		switch {
		case err == nil:
			item.text = resume.Text
		case repos.IsNotFound(err):
			item.loadErr = errors.New("no résumé on file")
		default:
			return nil, err
		}
		items = append(items, item)
	}
	return s.run(ctx, rd.UserID, role, BulkSourceUsers, items)
}

func (s *bulkService) RunForFiles(ctx context.Context, targetRole string, files []Upload) (*BulkReport, error) {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	role, err := s.validate(targetRole, len(files))
	if err != nil {
		return nil, err
	}
	items := make([]bulkItem, 0, len(files))
	for i, f := range files {
		label := strings.TrimSpace(f.Filename)
		if label == "" {
			label = fmt.Sprintf("file-%d", i+1)
		}
		item := bulkItem{label: label}
		doc, err := docextract.Extract(f.Filename, f.ContentType, f.Data)
		if err != nil {
			reason := "error"
			var ee *docextract.ExtractionError
			if errors.As(err, &ee) {
				reason = ee.Reason
			}
			observability.Current().IncExtraction(docextract.Detect(f.Filename, f.ContentType, f.Data), reason)
			item.loadErr = err
		} else {
			observability.Current().IncExtraction(doc.Format, "ok")
			item.text = doc.Text
		}
		items = append(items, item)
	}
	return s.run(ctx, rd.UserID, role, BulkSourceFiles, items)
}

func (s *bulkService) validate(targetRole string, n int) (string, error) {
	role := s.pipeline.CanonicalRole(strings.TrimSpace(targetRole))
	if role == "" {
		return "", invalid("target_role is required")
	}
	if n == 0 {
		return "", invalid("nothing to analyze")
	}
	if n > MaxBulkItems {
		return "", invalid("at most %d items per batch", MaxBulkItems)
	}
	return role, nil
}

// run analyzes items one after another. Each item commits on its own, so a
// failure never touches the items before or after it.
func (s *bulkService) run(ctx context.Context, adminID uuid.UUID, role, source string, items []bulkItem) (*BulkReport, error) {
	run, err := s.bulkRepo.CreateRun(ctx, nil, &types.BulkRun{
		AdminID:    adminID,
		TargetRole: role,
		Source:     source,
		Total:      len(items),
		StartedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	log := s.log.With("run_id", run.ID.String(), "role", role)
	log.Info("bulk run started", "items", len(items), "source", source)

	var succeeded, failed int
	// abort closes the run with the counts so far. The caller's context may
	// already be cancelled, so the close does not inherit its cancellation.
	abort := func(cause error) (*BulkReport, error) {
		closeCtx := context.WithoutCancel(ctx)
		if err := s.bulkRepo.FinishRun(closeCtx, nil, run.ID, succeeded, failed, time.Now()); err != nil {
			log.Error("closing aborted bulk run", "error", err)
		}
		log.Warn("bulk run aborted", "succeeded", succeeded, "failed", failed, "error", cause)
		return nil, cause
	}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}
		result := &types.BulkResult{
			RunID:     run.ID,
			Position:  i + 1,
			UserID:    item.userID,
			Label:     item.label,
			Gaps:      coaching.Strings(nil),
			Strengths: coaching.Strings(nil),
		}
		itemErr := item.loadErr
		if itemErr == nil {
			itemErr = s.analyzeItem(ctx, role, item, result)
		}
		if itemErr != nil && ctx.Err() != nil {
			return abort(ctx.Err())
		}
		if itemErr != nil {
			result.Status = types.BulkStatusFailed
			result.Error = itemErr.Error()
			result.Score = nil
			result.Selected = false
			result.AnalysisID = nil
			if _, err := s.bulkRepo.CreateResult(ctx, nil, result); err != nil {
				return abort(err)
			}
			failed++
			observability.Current().IncBulkItem(types.BulkStatusFailed)
			log.Warn("bulk item failed", "position", i+1, "error", itemErr)
			continue
		}
		succeeded++
		observability.Current().IncBulkItem(types.BulkStatusSucceeded)
	}

	if err := s.bulkRepo.FinishRun(ctx, nil, run.ID, succeeded, failed, time.Now()); err != nil {
		return nil, err
	}
	log.Info("bulk run finished", "succeeded", succeeded, "failed", failed)
	return s.report(ctx, run.ID)
}

// analyzeItem runs the model and stores the item's rows in one transaction.
func (s *bulkService) analyzeItem(ctx context.Context, role string, item bulkItem, result *types.BulkResult) error {
	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:       coaching.KindBulkAnalysis,
		TargetRole: role,
		ResumeText: item.text,
	})
	if err != nil {
		return err
	}
	res := out.Result
	result.Status = types.BulkStatusSucceeded
	result.Score = res.Score
	result.Partial = res.Partial
	result.Gaps = coaching.Strings(res.Gaps)
	result.Strengths = coaching.Strings(res.Strengths)
	result.Selected = s.selected(res.Selected, res.Score)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if item.userID != nil {
			analysis := &types.AnalysisResult{
				UserID:     *item.userID,
				TargetRole: role,
				Score:      res.Score,
				Gaps:       result.Gaps,
				Strengths:  result.Strengths,
				Summary:    res.Summary,
				Selected:   &result.Selected,
				Partial:    res.Partial,
				Unresolved: coaching.Strings(res.Unresolved),
				Provider:   out.Completion.Provider,
				Model:      out.Completion.Model,
			}
			if _, err := s.analysisRepo.Create(ctx, tx, analysis); err != nil {
				return err
			}
			result.AnalysisID = &analysis.ID
		}
		_, err := s.bulkRepo.CreateResult(ctx, tx, result)
		return err
	})
}

// selected prefers the model's own decision and falls back to the threshold.
func (s *bulkService) selected(label *bool, score *int) bool {
	if label != nil {
		return *label
	}
	return score != nil && *score >= s.threshold
}

func (s *bulkService) GetReport(ctx context.Context, runID uuid.UUID) (*BulkReport, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	rep, err := s.report(ctx, runID)
	if err != nil && repos.IsNotFound(err) {
		return nil, apierr.NotFound("bulk run")
	}
	return rep, err
}

func (s *bulkService) report(ctx context.Context, runID uuid.UUID) (*BulkReport, error) {
	run, err := s.bulkRepo.GetRun(ctx, nil, runID)
	if err != nil {
		return nil, err
	}
	results, err := s.bulkRepo.ListResults(ctx, nil, runID)
	if err != nil {
		return nil, err
	}
	rep := &BulkReport{Run: run, Total: run.Total, Results: results}
	for _, r := range results {
		if r.Status == types.BulkStatusSucceeded {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
		if r.Selected {
			rep.Matched++
		}
	}
	if rep.Total > 0 {
		rep.MatchRate = float64(rep.Matched) * 100 / float64(rep.Total)
	}
	sortByScore(rep.Results)
	return rep, nil
}

// sortByScore orders results best first. Unscored and failed items go last,
// each group keeping its input order.
func sortByScore(results []*types.BulkResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Score, results[j].Score
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a > *b
	})
}
