package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/format"
)

// SummaryTurns is how much of the conversation a summary looks at.
const SummaryTurns = 6

var registry = map[coaching.TemplateKind]Template{}

func init() {
	registerAll()
}

// view is what templates render against.
type view struct {
	Role            string
	RoleDescription string
	Resume          string
	Truncated       bool
	Gaps            string
	Strengths       string
	History         string
	Message         string
	LastReply       string
	ContextJSON     string
	Format          string

	Goal            string
	CurrentSkills   string
	Timeline        string
	Concern         string
	CurrentRole     string
	ExperienceLevel string
}

// Build renders the template for in.Kind. It is a pure function of its input
// and the embedded role catalog.
func Build(in Input) (Prompt, error) {
	return BuildWith(DefaultCatalog(), in)
}

func BuildWith(catalog *Catalog, in Input) (Prompt, error) {
	t, ok := registry[in.Kind]
	if !ok {
		return Prompt{}, fmt.Errorf("%w: unknown template kind %q", ErrInvalidInput, in.Kind)
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, in.Kind, err)
		}
	}

	v := view{
		Role:      strings.TrimSpace(in.TargetRole),
		Message:   strings.TrimSpace(in.Message),
		LastReply: capRunes(strings.TrimSpace(in.LastReply), MaxTurnRunes),
		Gaps:      bulletList(in.Gaps),
		Strengths: bulletList(in.Strengths),
		Format:    format.Instructions(t.Shape, t.selected),

		Goal:            capRunes(strings.TrimSpace(in.Goal), MaxTurnRunes),
		CurrentSkills:   capRunes(strings.TrimSpace(in.CurrentSkills), MaxTurnRunes),
		Timeline:        capRunes(strings.TrimSpace(in.Timeline), MaxTurnRunes),
		Concern:         capRunes(strings.TrimSpace(in.Concern), MaxTurnRunes),
		CurrentRole:     capRunes(strings.TrimSpace(in.CurrentRole), MaxTurnRunes),
		ExperienceLevel: capRunes(strings.TrimSpace(in.ExperienceLevel), MaxTurnRunes),
	}
	if v.Role != "" && catalog != nil {
		v.RoleDescription = catalog.Describe(v.Role)
	}
	v.Resume, v.Truncated = TruncateResume(in.ResumeText)

	history := BoundHistory(in.History)
	if in.Kind == coaching.KindConversationSummary && len(history) > SummaryTurns {
		history = history[len(history)-SummaryTurns:]
	}
	v.History = renderHistory(history)

	if len(in.Context) > 0 {
		// encoding/json sorts map keys, which keeps the output stable
		b, err := json.MarshalIndent(in.Context, "", "  ")
		if err != nil {
			return Prompt{}, fmt.Errorf("%w: context: %v", ErrInvalidInput, err)
		}
		v.ContextJSON = string(b)
	}

	system, err := t.System(v)
	if err != nil {
		return Prompt{}, fmt.Errorf("render %s system prompt: %w", in.Kind, err)
	}
	user, err := t.User(v)
	if err != nil {
		return Prompt{}, fmt.Errorf("render %s user prompt: %w", in.Kind, err)
	}
	return Prompt{
		Kind:   in.Kind,
		System: applyStyle(system, t.Shape),
		User:   user,
	}, nil
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}

func renderHistory(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		speaker := "User"
		if t.Role == "assistant" {
			speaker = "Coach"
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(t.Content)
	}
	return b.String()
}
