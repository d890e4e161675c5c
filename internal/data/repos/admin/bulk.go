package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type BulkRepo interface {
	CreateRun(ctx context.Context, tx *gorm.DB, run *types.BulkRun) (*types.BulkRun, error)
	FinishRun(ctx context.Context, tx *gorm.DB, runID uuid.UUID, succeeded, failed int, at time.Time) error
	CreateResult(ctx context.Context, tx *gorm.DB, result *types.BulkResult) (*types.BulkResult, error)
	GetRun(ctx context.Context, tx *gorm.DB, runID uuid.UUID) (*types.BulkRun, error)
	ListResults(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.BulkResult, error)
}

type bulkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBulkRepo(db *gorm.DB, baseLog *logger.Logger) BulkRepo {
	return &bulkRepo{db: db, log: baseLog.With("repo", "BulkRepo")}
}

func (br *bulkRepo) CreateRun(ctx context.Context, tx *gorm.DB, run *types.BulkRun) (*types.BulkRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, storeerr.Wrap("create bulk run", err)
	}
	return run, nil
}

func (br *bulkRepo) FinishRun(ctx context.Context, tx *gorm.DB, runID uuid.UUID, succeeded, failed int, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.BulkRun{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"succeeded":   succeeded,
			"failed":      failed,
			"finished_at": at,
		}).Error; err != nil {
		return storeerr.Wrap("finish bulk run", err)
	}
	return nil
}

func (br *bulkRepo) CreateResult(ctx context.Context, tx *gorm.DB, result *types.BulkResult) (*types.BulkResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if err := transaction.WithContext(ctx).Create(result).Error; err != nil {
		return nil, storeerr.Wrap("create bulk result", err)
	}
	return result, nil
}

func (br *bulkRepo) GetRun(ctx context.Context, tx *gorm.DB, runID uuid.UUID) (*types.BulkRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var run types.BulkRun
	if err := transaction.WithContext(ctx).Where("id = ?", runID).First(&run).Error; err != nil {
		return nil, storeerr.Wrap("get bulk run", err)
	}
	return &run, nil
}

func (br *bulkRepo) ListResults(ctx context.Context, tx *gorm.DB, runID uuid.UUID) ([]*types.BulkResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var out []*types.BulkResult
	if err := transaction.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("list bulk results", err)
	}
	return out, nil
}
