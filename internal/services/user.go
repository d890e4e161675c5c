package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	userrepo "github.com/yungbote/careercoach-backend/internal/data/repos/user"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	// ListUsers is admin only.
	ListUsers(ctx context.Context) ([]*types.User, error)
	// GrantAdmin is an operator action run from the CLI, outside any request.
	GrantAdmin(ctx context.Context, username string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user")
	}
	return users[0], nil
}

func (us *userService) ListUsers(ctx context.Context) ([]*types.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return us.userRepo.List(ctx, nil)
}

func (us *userService) GrantAdmin(ctx context.Context, username string) (*types.User, error) {
	name := userrepo.NormalizeUsername(username)
	if name == "" {
		return nil, invalid("username required")
	}
	var out *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := us.userRepo.GetByUsername(ctx, tx, name)
		if err != nil {
			return err
		}
		if err := us.userRepo.UpdateRole(ctx, tx, u.ID, types.RoleAdmin); err != nil {
			return err
		}
		u.Role = types.RoleAdmin
		out = u
		return nil
	})
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound(fmt.Sprintf("user %q", name))
		}
		return nil, err
	}
	us.log.Info("admin role granted", "user_id", out.ID.String())
	return out, nil
}
