package repos

import (
	"github.com/yungbote/careercoach-backend/internal/data/repos/admin"
	"github.com/yungbote/careercoach-backend/internal/data/repos/chat"
	"github.com/yungbote/careercoach-backend/internal/data/repos/coaching"
	"github.com/yungbote/careercoach-backend/internal/data/repos/progress"
	"github.com/yungbote/careercoach-backend/internal/data/repos/user"
	"github.com/yungbote/careercoach-backend/internal/data/storeerr"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type ResumeRepo = coaching.ResumeRepo
type AnalysisRepo = coaching.AnalysisRepo
type PlanRepo = coaching.PlanRepo

type ChatTurnRepo = chat.ChatTurnRepo

type LearningSessionRepo = progress.LearningSessionRepo
type AchievementRepo = progress.AchievementRepo

type BulkRepo = admin.BulkRepo

type StoreError = storeerr.StoreError

var (
	ErrNotFound             = storeerr.ErrNotFound
	ErrConflict             = storeerr.ErrConflict
	ErrReferentialIntegrity = storeerr.ErrReferentialIntegrity
)

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewResumeRepo(db *gorm.DB, log *logger.Logger) ResumeRepo {
	return coaching.NewResumeRepo(db, log)
}
func NewAnalysisRepo(db *gorm.DB, log *logger.Logger) AnalysisRepo {
	return coaching.NewAnalysisRepo(db, log)
}
func NewPlanRepo(db *gorm.DB, log *logger.Logger) PlanRepo { return coaching.NewPlanRepo(db, log) }

func NewChatTurnRepo(db *gorm.DB, log *logger.Logger) ChatTurnRepo {
	return chat.NewChatTurnRepo(db, log)
}

func NewLearningSessionRepo(db *gorm.DB, log *logger.Logger) LearningSessionRepo {
	return progress.NewLearningSessionRepo(db, log)
}
func NewAchievementRepo(db *gorm.DB, log *logger.Logger) AchievementRepo {
	return progress.NewAchievementRepo(db, log)
}

func NewBulkRepo(db *gorm.DB, log *logger.Logger) BulkRepo { return admin.NewBulkRepo(db, log) }

func IsNotFound(err error) bool { return storeerr.IsNotFound(err) }
