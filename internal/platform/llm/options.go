package llm

import (
	"time"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
)

type Options struct {
	Temperature float64
	MaxTokens   int
	// Timeout bounds the whole call, retry included.
	Timeout time.Duration
}

var kindOptions = map[coaching.TemplateKind]Options{
	coaching.KindAnalysis:            {Temperature: 0.2, MaxTokens: 1500, Timeout: 60 * time.Second},
	coaching.KindLearningPlan:        {Temperature: 0.3, MaxTokens: 2500, Timeout: 90 * time.Second},
	coaching.KindChatTurn:            {Temperature: 0.7, MaxTokens: 800, Timeout: 45 * time.Second},
	coaching.KindBulkAnalysis:        {Temperature: 0.2, MaxTokens: 1200, Timeout: 60 * time.Second},
	coaching.KindCareerGuidance:      {Temperature: 0.5, MaxTokens: 1200, Timeout: 60 * time.Second},
	coaching.KindConversationSummary: {Temperature: 0.3, MaxTokens: 500, Timeout: 30 * time.Second},
	coaching.KindFollowUp:            {Temperature: 0.6, MaxTokens: 300, Timeout: 30 * time.Second},
	coaching.KindLearningPath:        {Temperature: 0.5, MaxTokens: 1200, Timeout: 60 * time.Second},
	coaching.KindMotivation:          {Temperature: 0.7, MaxTokens: 700, Timeout: 45 * time.Second},
	coaching.KindCareerTransition:    {Temperature: 0.5, MaxTokens: 1200, Timeout: 60 * time.Second},
	coaching.KindInterviewPrep:       {Temperature: 0.5, MaxTokens: 1200, Timeout: 60 * time.Second},
}

// OptionsFor returns the fixed options of a template kind. Unknown kinds get the
// analysis options.
func OptionsFor(kind coaching.TemplateKind) Options {
	if o, ok := kindOptions[kind]; ok {
		return o
	}
	return kindOptions[coaching.KindAnalysis]
}
