package progress

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/careercoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/careercoach-backend/internal/domain"
)

func TestAwardIsOncePerName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewAchievementRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "gina")

	for i, want := range []bool{true, false} {
		got, err := repo.Award(ctx, tx, &types.Achievement{
			UserID: u.ID,
			Type:   "course_completion",
			Name:   "Completed Docker",
		})
		if err != nil {
			t.Fatalf("Award #%d: %v", i, err)
		}
		if got != want {
			t.Fatalf("Award #%d awarded=%v want %v", i, got, want)
		}
	}
	list, err := repo.List(ctx, tx, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List len=%d err=%v", len(list), err)
	}
}

func TestListSinceFiltersByDate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewLearningSessionRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "hank")
	now := time.Now().UTC()

	for _, d := range []time.Time{now, now.AddDate(0, 0, -5), now.AddDate(0, 0, -45)} {
		if _, err := repo.Create(ctx, tx, &types.LearningSession{
			UserID:         u.ID,
			SkillName:      "Terraform",
			SessionDate:    d,
			MinutesStudied: 30,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	got, err := repo.ListSince(ctx, tx, u.ID, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSince len=%d want 2", len(got))
	}
}
