package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	Resume          repos.ResumeRepo
	Analysis        repos.AnalysisRepo
	Plan            repos.PlanRepo
	ChatTurn        repos.ChatTurnRepo
	LearningSession repos.LearningSessionRepo
	Achievement     repos.AchievementRepo
	Bulk            repos.BulkRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Resume:          repos.NewResumeRepo(db, log),
		Analysis:        repos.NewAnalysisRepo(db, log),
		Plan:            repos.NewPlanRepo(db, log),
		ChatTurn:        repos.NewChatTurnRepo(db, log),
		LearningSession: repos.NewLearningSessionRepo(db, log),
		Achievement:     repos.NewAchievementRepo(db, log),
		Bulk:            repos.NewBulkRepo(db, log),
	}
}
