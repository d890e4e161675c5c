package coaching

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type ResumeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resume *types.Resume) (*types.Resume, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Resume, error)
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Resume, error)
}

type resumeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResumeRepo(db *gorm.DB, baseLog *logger.Logger) ResumeRepo {
	return &resumeRepo{db: db, log: baseLog.With("repo", "ResumeRepo")}
}

func (rr *resumeRepo) Create(ctx context.Context, tx *gorm.DB, resume *types.Resume) (*types.Resume, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(resume).Error; err != nil {
		return nil, storeerr.Wrap("create resume", err)
	}
	return resume, nil
}

func (rr *resumeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Resume, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var r types.Resume
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, storeerr.Wrap("get resume", err)
	}
	return &r, nil
}

func (rr *resumeRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Resume, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var r types.Resume
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&r).Error; err != nil {
		return nil, storeerr.Wrap("get latest resume", err)
	}
	return &r, nil
}
