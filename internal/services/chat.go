package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/interpret"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

const (
	NoHistorySummary    = "No conversation history yet."
	MaxChatMessageRunes = 4000
	contextPlanModules  = 5
	followUpCount       = 3
)

// FallbackFollowUps is offered when the model cannot suggest questions.
var FallbackFollowUps = []string{
	"What should I focus on first?",
	"How long will this take?",
	"What resources do you recommend?",
}

type ChatReply struct {
	Reply string            `json:"reply"`
	Turns []*types.ChatTurn `json:"turns"`
}

// ToolRequest carries the fields of the one-shot coaching tools. Each tool
// reads only the fields its prompt needs.
type ToolRequest struct {
	Goal            string `json:"goal"`
	CurrentSkills   string `json:"current_skills"`
	Timeline        string `json:"timeline"`
	Concern         string `json:"concern"`
	CurrentRole     string `json:"current_role"`
	TargetRole      string `json:"target_role"`
	ExperienceLevel string `json:"experience_level"`
}

var coachingTools = map[string]coaching.TemplateKind{
	"learning-path":     coaching.KindLearningPath,
	"motivation":        coaching.KindMotivation,
	"career-transition": coaching.KindCareerTransition,
	"interview-prep":    coaching.KindInterviewPrep,
}

type ChatService interface {
	Send(ctx context.Context, message string) (*ChatReply, error)
	// History returns the latest turns, or the turns after afterSeq in order
	// when afterSeq is positive.
	History(ctx context.Context, afterSeq int64, limit int) ([]*types.ChatTurn, error)
	Summary(ctx context.Context) (string, error)
	// FollowUps suggests questions about lastReply, or about the latest coach
	// reply on record when lastReply is empty. It always returns questions.
	FollowUps(ctx context.Context, lastReply string) ([]string, error)
	CareerGuidance(ctx context.Context, profile map[string]any) (string, error)
	// CoachingTool runs a one-shot tool by its route name. Nothing is added
	// to the chat transcript.
	CoachingTool(ctx context.Context, tool string, req ToolRequest) (string, error)
}

type chatService struct {
	db           *gorm.DB
	log          *logger.Logger
	pipeline     *Pipeline
	turnRepo     repos.ChatTurnRepo
	userRepo     repos.UserRepo
	analysisRepo repos.AnalysisRepo
	planRepo     repos.PlanRepo
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	pipeline *Pipeline,
	turnRepo repos.ChatTurnRepo,
	userRepo repos.UserRepo,
	analysisRepo repos.AnalysisRepo,
	planRepo repos.PlanRepo,
) ChatService {
	return &chatService{
		db:           db,
		log:          log.With("service", "ChatService"),
		pipeline:     pipeline,
		turnRepo:     turnRepo,
		userRepo:     userRepo,
		analysisRepo: analysisRepo,
		planRepo:     planRepo,
	}
}

// Send runs one coach turn. Both turns are stored only after the model answered.
func (s *chatService) Send(ctx context.Context, message string) (*ChatReply, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	msg := strings.TrimSpace(message)
	if msg == "" {
		return nil, invalid("message is required")
	}
	if len([]rune(msg)) > MaxChatMessageRunes {
		return nil, invalid("message is longer than %d characters", MaxChatMessageRunes)
	}

	history, err := s.turnRepo.ListRecent(ctx, nil, rd.UserID, prompts.MaxHistoryTurns)
	if err != nil {
		return nil, err
	}
	coachCtx, err := s.coachContext(ctx, rd.UserID)
	if err != nil {
		return nil, err
	}

	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:    coaching.KindChatTurn,
		History: toTurns(history),
		Message: msg,
		Context: coachCtx,
	})
	if err != nil {
		return nil, err
	}
	reply := out.Result.Text

	turns, err := s.turnRepo.Append(ctx, nil, rd.UserID,
		&types.ChatTurn{Role: types.ChatRoleUser, Content: msg},
		&types.ChatTurn{Role: types.ChatRoleAssistant, Content: reply, Model: out.Completion.Model},
	)
	if err != nil {
		return nil, err
	}
	return &ChatReply{Reply: reply, Turns: turns}, nil
}

// coachContext is what the coach knows about the user beyond the transcript.
func (s *chatService) coachContext(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	out := map[string]any{}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		out["profile"] = map[string]any{
			"display_name": users[0].DisplayName,
		}
	}

	analysis, err := s.analysisRepo.GetLatest(ctx, nil, userID, "")
	if err != nil && !repos.IsNotFound(err) {
		return nil, err
	}
	if analysis == nil {
		return out, nil
	}
	a := map[string]any{
		"target_role": analysis.TargetRole,
		"skill_gaps":  analysis.GapList(),
		"strengths":   analysis.StrengthList(),
	}
	if analysis.Score != nil {
		a["score"] = *analysis.Score
	}
	if analysis.Summary != "" {
		a["summary"] = analysis.Summary
	}
	out["analysis"] = a

	plan, err := s.planRepo.GetLatest(ctx, nil, userID, analysis.TargetRole)
	if err != nil && !repos.IsNotFound(err) {
		return nil, err
	}
	if plan != nil {
		var mods []map[string]any
	collect:
		for _, ph := range plan.Phases {
			for _, m := range ph.Modules {
				if len(mods) == contextPlanModules {
					break collect
				}
				mods = append(mods, map[string]any{
					"phase":  ph.Position,
					"module": m.Name,
					"status": m.Status(),
				})
			}
		}
		out["learning_plan"] = mods
	}
	return out, nil
}

func (s *chatService) History(ctx context.Context, afterSeq int64, limit int) ([]*types.ChatTurn, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if afterSeq < 0 {
		return nil, invalid("after must not be negative")
	}
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	if afterSeq > 0 {
		return s.turnRepo.ListAfter(ctx, nil, rd.UserID, afterSeq, limit)
	}
	return s.turnRepo.ListRecent(ctx, nil, rd.UserID, limit)
}

func (s *chatService) Summary(ctx context.Context) (string, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return "", err
	}
	turns, err := s.turnRepo.ListRecent(ctx, nil, rd.UserID, prompts.SummaryTurns)
	if err != nil {
		return "", err
	}
	if len(turns) == 0 {
		return NoHistorySummary, nil
	}
	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:    coaching.KindConversationSummary,
		History: toTurns(turns),
	})
	if err != nil {
		return "", err
	}
	return out.Result.Text, nil
}

func (s *chatService) FollowUps(ctx context.Context, lastReply string) ([]string, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	reply := strings.TrimSpace(lastReply)
	if reply == "" {
		turns, err := s.turnRepo.ListRecent(ctx, nil, rd.UserID, 2)
		if err != nil {
			return nil, err
		}
		for i := len(turns) - 1; i >= 0; i-- {
			if turns[i].Role == types.ChatRoleAssistant {
				reply = turns[i].Content
				break
			}
		}
	}
	if reply == "" {
		return fallbackFollowUps(), nil
	}

	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:      coaching.KindFollowUp,
		LastReply: reply,
	})
	if err != nil {
		var pe *interpret.ParseError
		if !errors.As(err, &pe) {
			s.log.Warn("follow-up suggestions unavailable", "error", err)
		}
		return fallbackFollowUps(), nil
	}
	var questions []string
	for _, q := range interpret.BulletItems(out.Result.Text) {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
		if len(questions) == followUpCount {
			break
		}
	}
	if len(questions) == 0 {
		return fallbackFollowUps(), nil
	}
	return questions, nil
}

func (s *chatService) CareerGuidance(ctx context.Context, profile map[string]any) (string, error) {
	if _, err := requireSession(ctx); err != nil {
		return "", err
	}
	if len(profile) == 0 {
		return "", invalid("profile is required")
	}
	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:    coaching.KindCareerGuidance,
		Context: profile,
	})
	if err != nil {
		return "", err
	}
	return out.Result.Text, nil
}

func (s *chatService) CoachingTool(ctx context.Context, tool string, req ToolRequest) (string, error) {
	rd, err := requireSession(ctx)
	if err != nil {
		return "", err
	}
	kind, ok := coachingTools[strings.ToLower(strings.TrimSpace(tool))]
	if !ok {
		return "", apierr.NotFound("coaching tool")
	}
	coachCtx, err := s.coachContext(ctx, rd.UserID)
	if err != nil {
		return "", err
	}
	out, err := s.pipeline.Run(ctx, prompts.Input{
		Kind:            kind,
		TargetRole:      s.pipeline.CanonicalRole(strings.TrimSpace(req.TargetRole)),
		Goal:            req.Goal,
		CurrentSkills:   req.CurrentSkills,
		Timeline:        req.Timeline,
		Concern:         req.Concern,
		CurrentRole:     req.CurrentRole,
		ExperienceLevel: req.ExperienceLevel,
		Context:         coachCtx,
	})
	if err != nil {
		return "", err
	}
	return out.Result.Text, nil
}

func toTurns(turns []*types.ChatTurn) []prompts.Turn {
	out := make([]prompts.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, prompts.Turn{Role: t.Role, Content: t.Content})
	}
	return out
}

func fallbackFollowUps() []string {
	return append([]string(nil), FallbackFollowUps...)
}
