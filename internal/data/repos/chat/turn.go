package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type ChatTurnRepo interface {
	// Append assigns consecutive sequence numbers to turns (all of one user) and
	// inserts them in a single transaction.
	Append(ctx context.Context, tx *gorm.DB, userID uuid.UUID, turns ...*types.ChatTurn) ([]*types.ChatTurn, error)
	// ListRecent returns at most limit turns, oldest first.
	ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.ChatTurn, error)
	ListAfter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, afterSeq int64, limit int) ([]*types.ChatTurn, error)
	Count(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type chatTurnRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatTurnRepo(db *gorm.DB, baseLog *logger.Logger) ChatTurnRepo {
	return &chatTurnRepo{db: db, log: baseLog.With("repo", "ChatTurnRepo")}
}

func (cr *chatTurnRepo) Append(ctx context.Context, tx *gorm.DB, userID uuid.UUID, turns ...*types.ChatTurn) ([]*types.ChatTurn, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(turns) == 0 {
		return []*types.ChatTurn{}, nil
	}
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var maxSeq int64
		if err := txx.Model(&types.ChatTurn{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		for i, t := range turns {
			t.UserID = userID
			t.Seq = maxSeq + int64(i) + 1
		}
		return txx.Create(&turns).Error
	})
	if err != nil {
		return nil, storeerr.Wrap("append chat turn", err)
	}
	return turns, nil
}

func (cr *chatTurnRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.ChatTurn, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var out []*types.ChatTurn
	q := transaction.WithContext(ctx).Where("user_id = ?", userID).Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("list recent chat turns", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (cr *chatTurnRepo) ListAfter(ctx context.Context, tx *gorm.DB, userID uuid.UUID, afterSeq int64, limit int) ([]*types.ChatTurn, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var out []*types.ChatTurn
	q := transaction.WithContext(ctx).
		Where("user_id = ? AND seq > ?", userID, afterSeq).
		Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, storeerr.Wrap("list chat turns", err)
	}
	return out, nil
}

func (cr *chatTurnRepo) Count(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var n int64
	if err := transaction.WithContext(ctx).Model(&types.ChatTurn{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, storeerr.Wrap("count chat turns", err)
	}
	return n, nil
}
