package coaching

import "strings"

// TemplateKind selects a prompt template and the model options used with it.
type TemplateKind string

const (
	KindAnalysis            TemplateKind = "analysis"
	KindLearningPlan        TemplateKind = "learning_plan"
	KindChatTurn            TemplateKind = "chat_turn"
	KindBulkAnalysis        TemplateKind = "bulk_analysis"
	KindCareerGuidance      TemplateKind = "career_guidance"
	KindConversationSummary TemplateKind = "conversation_summary"
	KindFollowUp            TemplateKind = "follow_up"

	// Coaching tools: single-shot advice outside the chat transcript.
	KindLearningPath     TemplateKind = "learning_path"
	KindMotivation       TemplateKind = "motivation"
	KindCareerTransition TemplateKind = "career_transition"
	KindInterviewPrep    TemplateKind = "interview_prep"
)

var AllKinds = []TemplateKind{
	KindAnalysis,
	KindLearningPlan,
	KindChatTurn,
	KindBulkAnalysis,
	KindCareerGuidance,
	KindConversationSummary,
	KindFollowUp,
	KindLearningPath,
	KindMotivation,
	KindCareerTransition,
	KindInterviewPrep,
}

func (k TemplateKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

func ParseKind(s string) (TemplateKind, bool) {
	k := TemplateKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}
