package coaching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/careercoach-backend/internal/data/repos/testutil"
	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
)

func TestPlanRepoRequiresAnalysisForSameUserAndRole(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewPlanRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "alice")
	other := testutil.SeedUser(t, ctx, tx, "bob")
	a := testutil.SeedAnalysis(t, ctx, tx, u.ID, "AI Engineer", 64, "PyTorch")

	cases := []struct {
		name string
		plan *types.LearningPlan
	}{
		{"no analysis id", testutil.PlanSpec(u.ID, uuid.Nil, "AI Engineer", []string{"Foundations", "Linear algebra"})},
		{"unknown analysis", testutil.PlanSpec(u.ID, uuid.New(), "AI Engineer", []string{"Foundations", "Linear algebra"})},
		{"different role", testutil.PlanSpec(u.ID, a.ID, "Frontend Engineer", []string{"Foundations", "CSS"})},
		{"different user", testutil.PlanSpec(other.ID, a.ID, "AI Engineer", []string{"Foundations", "Linear algebra"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tx, tc.plan)
			if !errors.Is(err, storeerr.ErrReferentialIntegrity) {
				t.Fatalf("Create err=%v, want ErrReferentialIntegrity", err)
			}
			var se *storeerr.StoreError
			if !errors.As(err, &se) {
				t.Fatalf("expected StoreError, got %T", err)
			}
		})
	}

	plan, err := repo.Create(ctx, tx, testutil.PlanSpec(u.ID, a.ID, "AI Engineer",
		[]string{"Foundations", "Linear algebra", "Probability"},
		[]string{"Deep learning", "PyTorch basics"},
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetLatest(ctx, tx, u.ID, "AI Engineer")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if got.ID != plan.ID || len(got.Phases) != 2 {
		t.Fatalf("unexpected plan: id=%s phases=%d", got.ID, len(got.Phases))
	}
	if got.Phases[0].Position != 1 || got.Phases[0].Modules[1].Name != "Probability" {
		t.Fatalf("phase order not preserved: %+v", got.Phases[0])
	}
	if got.Phases[1].Modules[0].Position != 1 {
		t.Fatalf("module positions restart per phase, got %d", got.Phases[1].Modules[0].Position)
	}
}

func TestSetModuleCompletedIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewPlanRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "carol")
	a := testutil.SeedAnalysis(t, ctx, tx, u.ID, "Backend Engineer", 70, "Go")
	plan, err := repo.Create(ctx, tx, testutil.PlanSpec(u.ID, a.ID, "Backend Engineer", []string{"Core", "Go concurrency"}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mod, err := repo.FindModule(ctx, tx, plan.ID, 1, "go concurrency")
	if err != nil {
		t.Fatalf("FindModule by name: %v", err)
	}
	byPos, err := repo.FindModule(ctx, tx, plan.ID, 1, "1")
	if err != nil || byPos.ID != mod.ID {
		t.Fatalf("FindModule by position: %v", err)
	}

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := repo.SetModuleCompleted(ctx, tx, mod.ID, true, first); err != nil {
		t.Fatalf("SetModuleCompleted: %v", err)
	}
	if err := repo.SetModuleCompleted(ctx, tx, mod.ID, true, first.Add(time.Hour)); err != nil {
		t.Fatalf("SetModuleCompleted again: %v", err)
	}
	again, err := repo.FindModule(ctx, tx, plan.ID, 1, "1")
	if err != nil {
		t.Fatalf("FindModule: %v", err)
	}
	if !again.Completed || again.CompletedAt == nil || !again.CompletedAt.Equal(first) {
		t.Fatalf("second completion must not move completed_at: %+v", again)
	}

	if err := repo.SetModuleCompleted(ctx, tx, mod.ID, false, first); err != nil {
		t.Fatalf("SetModuleCompleted false: %v", err)
	}
	cleared, _ := repo.FindModule(ctx, tx, plan.ID, 1, "1")
	if cleared.Completed || cleared.CompletedAt != nil {
		t.Fatalf("expected module reset, got %+v", cleared)
	}
}

func TestAnalysisLatestSupersedes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewAnalysisRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "dana")
	testutil.SeedAnalysis(t, ctx, tx, u.ID, "AI Engineer", 40, "Python")
	time.Sleep(5 * time.Millisecond)
	newer := testutil.SeedAnalysis(t, ctx, tx, u.ID, "AI Engineer", 80, "MLOps")

	got, err := repo.GetLatest(ctx, tx, u.ID, "AI Engineer")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if got.ID != newer.ID || *got.Score != 80 {
		t.Fatalf("latest analysis = %s (score %v), want %s", got.ID, got.Score, newer.ID)
	}

	if _, err := repo.GetLatest(ctx, tx, u.ID, "Frontend Engineer"); !storeerr.IsNotFound(err) {
		t.Fatalf("expected not found for other role, got %v", err)
	}
}
