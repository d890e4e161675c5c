package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "x",
		Role:         types.RoleStandard,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAdmin(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, username)
	if err := tx.WithContext(ctx).Model(u).Update("role", types.RoleAdmin).Error; err != nil {
		tb.Fatalf("seed admin: %v", err)
	}
	u.Role = types.RoleAdmin
	return u
}

func SeedResume(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, text string) *types.Resume {
	tb.Helper()
	r := &types.Resume{
		UserID:      userID,
		Filename:    "resume.txt",
		ContentType: "text/plain",
		Text:        text,
		Chars:       len([]rune(text)),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resume: %v", err)
	}
	return r
}

func SeedAnalysis(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string, score int, gaps ...string) *types.AnalysisResult {
	tb.Helper()
	s := score
	a := &types.AnalysisResult{
		UserID:     userID,
		TargetRole: role,
		Score:      &s,
		Gaps:       coaching.Strings(gaps),
		Strengths:  coaching.Strings(nil),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed analysis: %v", err)
	}
	return a
}

// PlanSpec builds an unsaved plan: each entry is a phase title followed by its modules.
func PlanSpec(userID, analysisID uuid.UUID, role string, phases ...[]string) *types.LearningPlan {
	plan := &types.LearningPlan{UserID: userID, TargetRole: role, AnalysisID: analysisID}
	for _, spec := range phases {
		if len(spec) == 0 {
			continue
		}
		ph := &types.PlanPhase{Title: spec[0]}
		for _, name := range spec[1:] {
			ph.Modules = append(ph.Modules, &types.PlanModule{Name: name})
		}
		plan.Phases = append(plan.Phases, ph)
	}
	return plan
}
