package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type LearningSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.LearningSession) (*types.LearningSession, error)
	ListSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.LearningSession, error)
}

type AchievementRepo interface {
	// Award inserts the achievement unless the user already holds one with the
	// same name. It reports whether a new row was written.
	Award(ctx context.Context, tx *gorm.DB, a *types.Achievement) (bool, error)
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Achievement, error)
}

type learningSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningSessionRepo(db *gorm.DB, baseLog *logger.Logger) LearningSessionRepo {
	return &learningSessionRepo{db: db, log: baseLog.With("repo", "LearningSessionRepo")}
}

func (lr *learningSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.LearningSession) (*types.LearningSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, storeerr.Wrap("create learning session", err)
	}
	return session, nil
}

func (lr *learningSessionRepo) ListSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.LearningSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var out []*types.LearningSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND session_date >= ?", userID, since).
		Order("session_date DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("list learning sessions", err)
	}
	return out, nil
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (ar *achievementRepo) Award(ctx context.Context, tx *gorm.DB, a *types.Achievement) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Achievement{}).
		Where("user_id = ? AND name = ?", a.UserID, a.Name).
		Count(&count).Error; err != nil {
		return false, storeerr.Wrap("check achievement", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := transaction.WithContext(ctx).Create(a).Error; err != nil {
		return false, storeerr.Wrap("award achievement", err)
	}
	return true, nil
}

func (ar *achievementRepo) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var out []*types.Achievement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("list achievements", err)
	}
	return out, nil
}
