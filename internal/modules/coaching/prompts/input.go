package prompts

import (
	"errors"
	"strings"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
)

var ErrInvalidInput = errors.New("invalid prompt input")

// Turn is one chat message handed to the builder, oldest first.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Input is a superset of all fields any template might need. Fields a kind
// does not use are ignored.
type Input struct {
	Kind       coaching.TemplateKind
	TargetRole string
	ResumeText string

	// learning plan
	Gaps      []string
	Strengths []string

	// chat, summary and follow-up
	History   []Turn
	Message   string
	LastReply string

	// coaching tools
	Goal            string
	CurrentSkills   string
	Timeline        string
	Concern         string
	CurrentRole     string
	ExperienceLevel string

	// Context is rendered as indented JSON: coach context for chat turns, the
	// user's profile for career guidance.
	Context map[string]any
}

type Prompt struct {
	Kind   coaching.TemplateKind `json:"kind"`
	System string                `json:"system"`
	User   string                `json:"user"`
}

// String joins both parts the way they are sent to providers that take a
// single text input.
func (p Prompt) String() string {
	sys := strings.TrimSpace(p.System)
	usr := strings.TrimSpace(p.User)
	switch {
	case sys == "":
		return usr
	case usr == "":
		return sys
	}
	return sys + "\n\n" + usr
}
