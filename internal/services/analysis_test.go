package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	"github.com/yungbote/careercoach-backend/internal/platform/docextract"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/llm/llmtest"
	"github.com/yungbote/careercoach-backend/internal/platform/objectstore"
)

func TestAnalyzeTextSavesAnalysisAndPlan(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("ada")
	ctx := as(u)

	out, err := h.analysisSvc.AnalyzeText(ctx, "backend engineer", "Ada Lovelace. Go, PostgreSQL, gRPC.")
	require.NoError(t, err)
	require.NotNil(t, out.Analysis)
	require.NotNil(t, out.Analysis.Score)
	assert.Equal(t, 72, *out.Analysis.Score)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, out.Analysis.GapList())
	assert.Equal(t, []string{"Go", "PostgreSQL"}, out.Analysis.StrengthList())
	assert.False(t, out.Analysis.Partial)
	assert.Equal(t, "fake", out.Analysis.Provider)
	assert.Empty(t, out.PlanError)

	require.NotNil(t, out.Plan)
	require.Len(t, out.Plan.Phases, 2)
	assert.Equal(t, out.Analysis.ID, out.Plan.AnalysisID)
	assert.Equal(t, "Docker basics", out.Plan.Phases[0].Modules[0].Name)
	assert.Equal(t, "docs.docker.com", out.Plan.Phases[0].Modules[0].Resource)

	role := out.Analysis.TargetRole
	latest, err := h.analyses.GetLatest(context.Background(), nil, u.ID, role)
	require.NoError(t, err)
	assert.Equal(t, out.Analysis.ID, latest.ID)

	plan, err := h.plans.GetLatest(context.Background(), nil, u.ID, role)
	require.NoError(t, err)
	require.Len(t, plan.Phases, 2)
	assert.Len(t, plan.Phases[0].Modules, 2)
	assert.Equal(t, "Terraform", plan.Phases[1].Modules[0].Name)
}

func TestAnalyzeKeepsAnalysisWhenPlanFails(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("grace")
	h.model.Push("learning_plan", llmtest.Reply{Text: "I cannot help with that."})

	out, err := h.analysisSvc.AnalyzeText(as(u), "AI Engineer", "Grace. COBOL, compilers.")
	require.NoError(t, err)
	assert.Nil(t, out.Plan)
	assert.NotEmpty(t, out.PlanError)

	_, err = h.analyses.GetLatest(context.Background(), nil, u.ID, "AI Engineer")
	require.NoError(t, err, "analysis must be stored even without a plan")
	_, err = h.plans.GetLatest(context.Background(), nil, u.ID, "AI Engineer")
	assert.True(t, repos.IsNotFound(err))
}

func TestAnalyzePartialScore(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("linus")
	h.model.Push("analysis", llmtest.Reply{Text: "SCORE: N/A\nGAPS:\n- Kubernetes\n"})

	out, err := h.analysisSvc.AnalyzeText(as(u), "Backend Engineer", "Linus. C, kernels.")
	require.NoError(t, err)
	assert.Nil(t, out.Analysis.Score)
	assert.True(t, out.Analysis.Partial)
	assert.Contains(t, out.Analysis.UnresolvedList(), "score")
}

func TestAnalyzeModelUnavailableStoresNothing(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("ken")
	h.model.Push("analysis", llmtest.Reply{Err: &llmtest.StatusError{Code: 401, Msg: "bad key"}})

	_, err := h.analysisSvc.AnalyzeText(as(u), "Backend Engineer", "Ken. Unix.")
	var mu *llm.ModelUnavailableError
	require.ErrorAs(t, err, &mu)
	assert.Equal(t, llm.ReasonAuth, mu.Reason)

	_, err = h.resumes.GetLatestByUser(context.Background(), nil, u.ID)
	assert.True(t, repos.IsNotFound(err))
}

func TestAnalyzeUploadRejectsUnreadableDocument(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("barbara")

	_, err := h.analysisSvc.AnalyzeUpload(as(u), "Backend Engineer", Upload{
		Filename:    "resume.pdf",
		ContentType: "application/pdf",
		Data:        []byte("definitely not a pdf"),
	})
	var ee *docextract.ExtractionError
	require.True(t, errors.As(err, &ee), "got %v", err)
	assert.Equal(t, 0, h.model.CallCount(""))
}

func TestAnalyzeUploadStoresFile(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("margaret")

	out, err := h.analysisSvc.AnalyzeUpload(as(u), "Backend Engineer", Upload{
		Filename:    "cv.txt",
		ContentType: "text/plain",
		Data:        []byte("Margaret. Apollo guidance software."),
	})
	require.NoError(t, err)

	r, err := h.resumes.GetLatestByUser(context.Background(), nil, u.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ResumeID, r.ID.String())
	require.NotEmpty(t, r.ObjectKey)
	data, err := h.blobs.Get(context.Background(), r.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, "Margaret. Apollo guidance software.", string(data))
}

// keyRecorder remembers the keys written through it.
type keyRecorder struct {
	objectstore.Store
	puts []string
}

func (k *keyRecorder) Put(ctx context.Context, key string, data []byte, contentType string) error {
	k.puts = append(k.puts, key)
	return k.Store.Put(ctx, key, data, contentType)
}

func TestAnalyzeUploadRemovesFileWhenModelFails(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("frances")
	rec := &keyRecorder{Store: h.blobs}
	svc := NewAnalysisService(h.db, h.log, h.pipeline, h.resumes, h.analyses, h.plans, rec)
	h.model.Push("analysis", llmtest.Reply{Err: &llmtest.StatusError{Code: 401, Msg: "bad key"}})

	_, err := svc.AnalyzeUpload(as(u), "Backend Engineer", Upload{
		Filename:    "cv.txt",
		ContentType: "text/plain",
		Data:        []byte("Frances. Compilers."),
	})
	var mu *llm.ModelUnavailableError
	require.ErrorAs(t, err, &mu)

	require.Len(t, rec.puts, 1)
	_, err = h.blobs.Get(context.Background(), rec.puts[0])
	assert.ErrorIs(t, err, objectstore.ErrNotFound, "the uploaded file is removed when nothing was saved")
}

func TestAnalyzeRequiresRole(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("dennis")
	_, err := h.analysisSvc.AnalyzeText(as(u), "  ", "Dennis. C.")
	require.Error(t, err)
	assert.Equal(t, 0, h.model.CallCount(""))
}

func TestRegeneratePlanRequiresAnalysis(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("alan")

	_, err := h.planSvc.Regenerate(as(u), "AI Engineer", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repos.ErrReferentialIntegrity), "got %v", err)
	var se *repos.StoreError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, 0, h.model.CallCount(""))
}

func TestRegeneratePlanUsesSkillsGap(t *testing.T) {
	h := newHarness(t)
	u := h.seedUser("edsger")
	_, err := h.analysisSvc.AnalyzeText(as(u), "AI Engineer", "Edsger. Algorithms.")
	require.NoError(t, err)

	plan, err := h.planSvc.Regenerate(as(u), "AI Engineer", []string{"PyTorch"})
	require.NoError(t, err)
	require.NotEmpty(t, plan.Phases)

	last := h.model.Calls[len(h.model.Calls)-1]
	assert.Equal(t, "learning_plan", string(last.Kind))
	assert.Contains(t, last.User, "PyTorch")

	latest, err := h.planSvc.GetLatest(as(u), "AI Engineer")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, latest.ID)
}
