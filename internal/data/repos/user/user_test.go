package user

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/careercoach-backend/internal/data/repos/testutil"
	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	created, err := repo.Create(ctx, tx, []*types.User{{Username: "  Ivy ", PasswordHash: "h"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].Username != "ivy" || created[0].Role != types.RoleStandard {
		t.Fatalf("unexpected user: %+v", created[0])
	}

	got, err := repo.GetByUsername(ctx, tx, "IVY")
	if err != nil || got.ID != created[0].ID {
		t.Fatalf("GetByUsername: %v", err)
	}

	_, err = repo.Create(ctx, tx, []*types.User{{Username: "ivy", PasswordHash: "h"}})
	if !errors.Is(err, storeerr.ErrConflict) {
		t.Fatalf("duplicate username err=%v, want ErrConflict", err)
	}
}

func TestUserRepoUpdateRoleAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	a := testutil.SeedUser(t, ctx, tx, "jack")
	testutil.SeedUser(t, ctx, tx, "kim")

	if err := repo.UpdateRole(ctx, tx, a.ID, types.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	users, err := repo.List(ctx, tx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("List len=%d want 2", len(users))
	}
	for _, u := range users {
		if u.ID == a.ID && u.Role != types.RoleAdmin {
			t.Fatalf("role not updated: %+v", u)
		}
	}
}
