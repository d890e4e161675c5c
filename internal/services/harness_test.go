package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	"github.com/yungbote/careercoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/ctxutil"
	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/llm/llmtest"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/platform/objectstore"
)

const (
	analysisReply = "SCORE: 72\nSUMMARY: Strong Go background.\nSTRENGTHS:\n- Go\n- PostgreSQL\nGAPS:\n- Kubernetes\n- Terraform\n"
	planReply     = "PHASE 1: Foundations\n- Docker basics | docs.docker.com\n- Kubernetes 101\nPHASE 2: Infrastructure as code\n- Terraform\n"
)

// harness wires every service against a private database and a scripted model.
// Service tests use DB directly: services open their own transactions and the
// test database has a single connection.
type harness struct {
	t     *testing.T
	db    *gorm.DB
	log   *logger.Logger
	model *llmtest.Provider

	users       repos.UserRepo
	resumes     repos.ResumeRepo
	analyses    repos.AnalysisRepo
	plans       repos.PlanRepo
	turns       repos.ChatTurnRepo
	sessions    repos.LearningSessionRepo
	achieves    repos.AchievementRepo
	bulkRuns    repos.BulkRepo
	blobs       objectstore.Store
	pipeline    *Pipeline
	auth        AuthService
	userSvc     UserService
	analysisSvc AnalysisService
	planSvc     PlanService
	progressSvc ProgressService
	chatSvc     ChatService
	bulkSvc     BulkService
	chartSvc    ChartService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	model := llmtest.New()
	model.Respond = func(req llm.Request) (string, error) {
		switch req.Kind {
		case "analysis", "bulk_analysis":
			return analysisReply, nil
		case "learning_plan":
			return planReply, nil
		case "follow_up":
			return "- How do I start with Kubernetes?\n- Which Terraform course is best?\n- How long until I am job ready?\n", nil
		}
		return "Good question. What would you like to tackle first?", nil
	}

	blobs, err := objectstore.NewLocalStore(log, t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	h := &harness{
		t:        t,
		db:       db,
		log:      log,
		model:    model,
		users:    repos.NewUserRepo(db, log),
		resumes:  repos.NewResumeRepo(db, log),
		analyses: repos.NewAnalysisRepo(db, log),
		plans:    repos.NewPlanRepo(db, log),
		turns:    repos.NewChatTurnRepo(db, log),
		sessions: repos.NewLearningSessionRepo(db, log),
		achieves: repos.NewAchievementRepo(db, log),
		bulkRuns: repos.NewBulkRepo(db, log),
		blobs:    blobs,
	}
	client := llm.NewClient(model, log, llm.WithRetryBackoff(0))
	h.pipeline = NewPipeline(log, client, nil)
	h.auth = NewAuthService(db, log, h.users, nil, "test-secret", time.Hour)
	h.userSvc = NewUserService(db, log, h.users)
	h.analysisSvc = NewAnalysisService(db, log, h.pipeline, h.resumes, h.analyses, h.plans, blobs)
	h.planSvc = NewPlanService(db, log, h.pipeline, h.resumes, h.analyses, h.plans)
	h.progressSvc = NewProgressService(db, log, h.plans, h.sessions, h.achieves)
	h.chatSvc = NewChatService(db, log, h.pipeline, h.turns, h.users, h.analyses, h.plans)
	h.bulkSvc = NewBulkService(db, log, h.pipeline, h.users, h.resumes, h.analyses, h.bulkRuns, 75)
	h.chartSvc = NewChartService(log, h.progressSvc)
	return h
}

// as returns a request context carrying u's session.
func as(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		TokenID:  uuid.NewString(),
	})
}

func (h *harness) seedUser(name string) *types.User {
	return testutil.SeedUser(h.t, context.Background(), h.db, name)
}

func (h *harness) seedAdmin(name string) *types.User {
	return testutil.SeedAdmin(h.t, context.Background(), h.db, name)
}

// seedPlan stores an analysis and a plan for u. Each phase is a title followed
// by module names.
func (h *harness) seedPlan(u *types.User, role string, phases ...[]string) *types.LearningPlan {
	h.t.Helper()
	ctx := context.Background()
	a := testutil.SeedAnalysis(h.t, ctx, h.db, u.ID, role, 60, "Kubernetes")
	plan, err := h.plans.Create(ctx, nil, testutil.PlanSpec(u.ID, a.ID, role, phases...))
	if err != nil {
		h.t.Fatalf("seed plan: %v", err)
	}
	return plan
}
