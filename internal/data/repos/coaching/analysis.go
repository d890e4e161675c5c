package coaching

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

// AnalysisRepo is append-only: there is no update or delete.
type AnalysisRepo interface {
	Create(ctx context.Context, tx *gorm.DB, result *types.AnalysisResult) (*types.AnalysisResult, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AnalysisResult, error)
	// GetLatest returns the newest analysis for the user. An empty role matches any role.
	GetLatest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetRole string) (*types.AnalysisResult, error)
	Exists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetRole string) (bool, error)
}

type analysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisRepo {
	return &analysisRepo{db: db, log: baseLog.With("repo", "AnalysisRepo")}
}

func (ar *analysisRepo) Create(ctx context.Context, tx *gorm.DB, result *types.AnalysisResult) (*types.AnalysisResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if result.UserID == uuid.Nil || result.TargetRole == "" {
		return nil, storeerr.Wrap("create analysis", storeerr.ErrReferentialIntegrity)
	}
	if err := transaction.WithContext(ctx).Create(result).Error; err != nil {
		return nil, storeerr.Wrap("create analysis", err)
	}
	return result, nil
}

func (ar *analysisRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AnalysisResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var out types.AnalysisResult
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, storeerr.Wrap("get analysis", err)
	}
	return &out, nil
}

func (ar *analysisRepo) GetLatest(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetRole string) (*types.AnalysisResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if targetRole != "" {
		q = q.Where("target_role = ?", targetRole)
	}
	var out types.AnalysisResult
	if err := q.Order("created_at DESC").First(&out).Error; err != nil {
		return nil, storeerr.Wrap("get latest analysis", err)
	}
	return &out, nil
}

func (ar *analysisRepo) Exists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetRole string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AnalysisResult{}).
		Where("user_id = ? AND target_role = ?", userID, targetRole).
		Count(&count).Error; err != nil {
		return false, storeerr.Wrap("analysis exists", err)
	}
	return count > 0, nil
}
