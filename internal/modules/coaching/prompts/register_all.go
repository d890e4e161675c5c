package prompts

import (
	"strings"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
)

func registerAll() {
	requireRole := RequireNonEmpty("target_role", func(in Input) string { return in.TargetRole })
	requireResume := RequireNonEmpty("resume_text", func(in Input) string { return in.ResumeText })

	RegisterSpec(Spec{
		Kind: coaching.KindAnalysis,
		System: `
You are an experienced technical recruiter and career coach.
You assess how well a resume fits a target role and name the concrete skills the candidate is missing.
Score strictly: 90+ means ready to interview today, below 50 means a major reskilling effort.`,
		User: `
TARGET ROLE: {{.Role}}
{{.RoleDescription}}

RESUME{{if .Truncated}} (middle section shortened){{end}}:
{{.Resume}}

{{.Format}}`,
		Validators: []Validator{requireRole, requireResume},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindBulkAnalysis,
		System: `
You are screening candidates for a hiring manager.
Assess each resume against the target role on its own merits, score it and decide whether to shortlist it.`,
		User: `
TARGET ROLE: {{.Role}}
{{.RoleDescription}}

CANDIDATE RESUME{{if .Truncated}} (middle section shortened){{end}}:
{{.Resume}}

{{.Format}}`,
		WithSelected: true,
		Validators:   []Validator{requireRole, requireResume},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindLearningPlan,
		System: `
You are a curriculum designer for working professionals.
You turn a skill-gap list into a phased learning plan, ordered from prerequisites to advanced topics.
Each module is small enough to finish in one to two weeks of part-time study.`,
		User: `
TARGET ROLE: {{.Role}}
{{.RoleDescription}}

SKILL GAPS:
{{.Gaps}}
{{if .Strengths}}
EXISTING STRENGTHS (build on these, do not re-teach them):
{{.Strengths}}
{{end}}{{if .Resume}}
RESUME EXCERPT:
{{.Resume}}
{{end}}
{{.Format}}`,
		Validators: []Validator{
			requireRole,
			RequireAny("gaps or resume_text required",
				func(in Input) bool { return len(nonEmpty(in.Gaps)) > 0 },
				func(in Input) bool { return strings.TrimSpace(in.ResumeText) != "" },
			),
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindChatTurn,
		System: `
You are an expert career coach with years of experience helping people advance their careers.
You are encouraging and supportive but realistic, and you know technology careers well: AI, software development, data and cloud.
Break complex career paths into actionable steps and give specific next steps rather than general advice.
Refer to the user's resume analysis and learning plan when they are relevant.
Always end your reply with a question that keeps the conversation going.`,
		User: `
{{if .ContextJSON}}USER CONTEXT:
{{.ContextJSON}}

{{end}}{{if .History}}CONVERSATION SO FAR:
{{.History}}

{{end}}User: {{.Message}}
Coach:`,
		Validators: []Validator{
			RequireNonEmpty("message", func(in Input) string { return in.Message }),
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindConversationSummary,
		System: `
You summarize career coaching conversations for the user who took part in them.`,
		User: `
Summarize this career coaching conversation:

{{.History}}

Give a brief summary of:
1. Main topics discussed
2. Key advice given
3. The user's goals and concerns`,
		Validators: []Validator{
			RequireAny("history required", func(in Input) bool { return len(BoundHistory(in.History)) > 0 }),
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindFollowUp,
		System: `
You help users of a career coaching service decide what to ask next.`,
		User: `
Based on this career coaching response:
"{{.LastReply}}"

Suggest 3 relevant follow-up questions the user might want to ask.
Make them specific and actionable.
Write one question per line, each starting with "- ".`,
		Validators: []Validator{
			RequireNonEmpty("last_reply", func(in Input) string { return in.LastReply }),
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindCareerGuidance,
		System: `
You are a career advisor for technology professionals.
Given a profile, recommend realistic target roles, the skills to build next and a first concrete step for this week.`,
		User: `
PROFILE:
{{.ContextJSON}}
{{if .Role}}
ROLE OF INTEREST: {{.Role}}
{{.RoleDescription}}
{{end}}{{if .Message}}
QUESTION: {{.Message}}
{{end}}`,
		Validators: []Validator{
			RequireAny("profile or message required",
				func(in Input) bool { return len(in.Context) > 0 },
				func(in Input) bool { return strings.TrimSpace(in.Message) != "" },
			),
		},
	})

	registerCoachingTools(requireRole)
}

// registerCoachingTools covers the one-shot advice the coach offers outside the
// chat: a learning path toward a goal, encouragement, a role change and
// interview preparation. USER CONTEXT carries the analysis and plan progress.
func registerCoachingTools(requireRole Validator) {
	const contextBlock = `{{if .ContextJSON}}USER CONTEXT:
{{.ContextJSON}}

{{end}}`

	RegisterSpec(Spec{
		Kind: coaching.KindLearningPath,
		System: `
You are a career coach who builds personalized learning paths.
Be encouraging and realistic about what fits the stated timeline.`,
		User: contextBlock + `Suggest a personalized learning path for someone who wants to: {{.Goal}}
{{if .CurrentSkills}}
Their current skills: {{.CurrentSkills}}
{{end}}{{if .Timeline}}Their timeline: {{.Timeline}}
{{end}}
Provide:
1. Immediate next steps (this week)
2. Short-term goals (1-3 months)
3. Long-term vision (6-12 months)
4. Specific actionable advice`,
		Validators: []Validator{
			RequireNonEmpty("goal", func(in Input) string { return in.Goal }),
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindMotivation,
		System: `
You are an encouraging career coach.
Be empathetic, practical and inspiring, and never dismiss the concern.`,
		User: contextBlock + `Address this concern: {{.Concern}}

Provide:
1. Acknowledgment of the concern
2. A realistic perspective, using their progress where it helps
3. Actionable next steps
4. Motivational encouragement`,
		Validators: []Validator{
			RequireNonEmpty("concern", func(in Input) string { return in.Concern }),
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindCareerTransition,
		System: `
You are a career coach who specializes in role changes within technology.
Be specific and actionable.`,
		User: contextBlock + `Help someone transition from {{.CurrentRole}} to {{.Role}}.
{{.RoleDescription}}
{{if .ExperienceLevel}}Experience level: {{.ExperienceLevel}}
{{end}}
Provide:
1. Key skills to develop
2. Common transition challenges
3. Timeline expectations
4. Networking strategies
5. Portfolio and project recommendations`,
		Validators: []Validator{
			RequireNonEmpty("current_role", func(in Input) string { return in.CurrentRole }),
			requireRole,
		},
	})

	RegisterSpec(Spec{
		Kind: coaching.KindInterviewPrep,
		System: `
You are an interview coach for technology roles.
Be practical and confidence-building.`,
		User: contextBlock + `Help prepare for {{.Role}} interviews.
{{.RoleDescription}}
Experience level: {{.ExperienceLevel}}
{{if .Concern}}Specific concerns: {{.Concern}}
{{end}}
Provide:
1. Common interview questions for this role
2. How to present experience effectively
3. Technical preparation tips
4. Confidence-building strategies
5. Questions to ask the interviewer`,
		Validators: []Validator{
			requireRole,
			RequireNonEmpty("experience_level", func(in Input) string { return in.ExperienceLevel }),
		},
	})
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}
