package interpret

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/careercoach-backend/internal/modules/coaching/format"
)

type Module struct {
	Name     string `json:"name"`
	Resource string `json:"resource,omitempty"`
}

type Phase struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Modules []Module `json:"modules"`
}

// Result is what could be recovered from a model response. Fields that did not
// validate are left zero and named in Unresolved.
type Result struct {
	Shape format.Shape `json:"shape"`

	Score     *int     `json:"score"`
	Selected  *bool    `json:"selected,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`

	Phases []Phase `json:"phases,omitempty"`

	Text string `json:"text,omitempty"`

	Partial    bool     `json:"partial"`
	Unresolved []string `json:"unresolved,omitempty"`
}

func (r *Result) unresolved(field string) {
	r.Partial = true
	for _, f := range r.Unresolved {
		if f == field {
			return
		}
	}
	r.Unresolved = append(r.Unresolved, field)
}

type ParseError struct {
	Shape  format.Shape
	Reason string
	// Excerpt is the start of the raw output, for logs.
	Excerpt string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Shape, e.Reason)
}

func newParseError(shape format.Shape, reason, raw string) *ParseError {
	ex := strings.TrimSpace(raw)
	if r := []rune(ex); len(r) > 200 {
		ex = string(r[:200])
	}
	return &ParseError{Shape: shape, Reason: reason, Excerpt: ex}
}

// Interpret parses raw model output into the given shape. It only fails when
// nothing usable can be recovered.
func Interpret(raw string, shape format.Shape) (Result, error) {
	text := strings.TrimSpace(format.StripFences(raw))
	if text == "" {
		return Result{}, newParseError(shape, "empty output", raw)
	}
	switch shape {
	case format.ShapeScoreAndGaps:
		return scoreAndGaps(text)
	case format.ShapePhasedPlan:
		return phasedPlan(text)
	case format.ShapeFreeText:
		return Result{Shape: shape, Text: text}, nil
	default:
		return Result{}, newParseError(shape, "unknown shape", raw)
	}
}

func ScoreAndGaps(raw string) (Result, error) { return Interpret(raw, format.ShapeScoreAndGaps) }

func PhasedPlan(raw string) (Result, error) { return Interpret(raw, format.ShapePhasedPlan) }

func FreeText(raw string) (Result, error) { return Interpret(raw, format.ShapeFreeText) }

// A fractional score is rejected; only a ".0" suffix is accepted.
var scoreValue = regexp.MustCompile(`(?i)^(\d{1,3})(?:\.0+)?\s*(?:/\s*100(?:\.0+)?|%|out of 100)?(?:$|[\s,;(]|\.(?:\s|$))`)

func parseScore(v string) (int, bool) {
	m := scoreValue.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

func parseBool(v string) (bool, bool) {
	f := strings.Fields(strings.ToLower(strings.Trim(strings.TrimSpace(v), ".!")))
	if len(f) == 0 {
		return false, false
	}
	switch strings.Trim(f[0], ".,;") {
	case "yes", "true", "y", "selected", "shortlist", "shortlisted":
		return true, true
	case "no", "false", "n", "rejected", "not":
		return false, true
	}
	return false, false
}

func scoreAndGaps(text string) (Result, error) {
	res := Result{Shape: format.ShapeScoreAndGaps, Strengths: []string{}, Gaps: []string{}}
	var (
		section   string
		scoreSeen bool
		summary   []string
	)
	add := func(list *[]string, item string) {
		item = strings.TrimSpace(strings.TrimSuffix(format.Clean(item), "."))
		if format.IsNone(item) {
			return
		}
		for _, existing := range *list {
			if strings.EqualFold(existing, item) {
				return
			}
		}
		*list = append(*list, item)
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		cleaned := format.Clean(trimmed)
		item, bullet := format.Bullet(trimmed)
		if bullet {
			// "1. SCORE: 72" is a numbered label, not a list item.
			cleaned = format.Clean(item)
		}
		label, value, ok := format.Label(cleaned)
		if !ok && bullet {
			switch section {
			case format.LabelGaps:
				add(&res.Gaps, item)
			case format.LabelStrengths:
				add(&res.Strengths, item)
			case format.LabelSummary:
				summary = append(summary, cleaned)
			}
			continue
		}
		if !ok {
			// List sections hold bullets only; prose after them is commentary.
			if section == format.LabelSummary {
				summary = append(summary, cleaned)
			} else {
				section = ""
			}
			continue
		}
		section = label
		switch label {
		case format.LabelScore:
			section = ""
			if scoreSeen {
				continue
			}
			scoreSeen = true
			if n, ok := parseScore(value); ok {
				res.Score = &n
			}
		case format.LabelSelected:
			section = ""
			if b, ok := parseBool(value); ok {
				res.Selected = &b
			}
		case format.LabelSummary:
			if value != "" {
				summary = append(summary, value)
			}
		case format.LabelGaps:
			for _, it := range format.InlineList(value) {
				add(&res.Gaps, it)
			}
		case format.LabelStrengths:
			for _, it := range format.InlineList(value) {
				add(&res.Strengths, it)
			}
		}
	}
	res.Summary = strings.Join(summary, " ")

	if res.Score == nil {
		res.unresolved(format.FieldScore)
	}
	if len(res.Gaps) == 0 {
		res.unresolved(format.FieldGaps)
	}
	if res.Score == nil && len(res.Gaps) == 0 {
		return Result{}, newParseError(format.ShapeScoreAndGaps, "no score and no gaps", text)
	}
	return res, nil
}

func phasedPlan(text string) (Result, error) {
	res := Result{Shape: format.ShapePhasedPlan}
	var (
		phases  []Phase
		current *Phase
		orphans bool
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if item, ok := format.Bullet(trimmed); ok {
			if current == nil {
				orphans = true
				continue
			}
			if m, ok := parseModule(item); ok {
				current.Modules = append(current.Modules, m)
			}
			continue
		}
		cleaned := format.Clean(trimmed)
		if n, title, ok := format.Phase(cleaned); ok {
			if title == "" {
				title = fmt.Sprintf("Phase %d", n)
			}
			phases = append(phases, Phase{Number: n, Title: title})
			current = &phases[len(phases)-1]
			continue
		}
	}

	kept := make([]Phase, 0, len(phases))
	for _, p := range phases {
		if len(p.Modules) == 0 {
			res.unresolved(format.FieldPhases)
			continue
		}
		kept = append(kept, p)
	}
	if orphans {
		res.unresolved(format.FieldPhases)
	}
	if len(kept) == 0 {
		return Result{}, newParseError(format.ShapePhasedPlan, "no phase with modules", text)
	}
	res.Phases = kept
	return res, nil
}

func parseModule(item string) (Module, bool) {
	name, resource := item, ""
	if i := strings.Index(item, "|"); i >= 0 {
		name, resource = item[:i], item[i+1:]
	}
	name = strings.TrimSpace(strings.TrimSuffix(format.Clean(name), "."))
	if format.IsNone(name) {
		return Module{}, false
	}
	return Module{Name: name, Resource: strings.TrimSpace(format.Clean(resource))}, true
}

// BulletItems returns the list items of a free-text answer, or its non-empty
// lines when it has no list.
func BulletItems(text string) []string {
	var bullets, lines []string
	for _, line := range strings.Split(format.StripFences(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if item, ok := format.Bullet(trimmed); ok {
			if item = format.Clean(item); item != "" {
				bullets = append(bullets, item)
			}
			continue
		}
		lines = append(lines, format.Clean(trimmed))
	}
	if len(bullets) > 0 {
		return bullets
	}
	return lines
}
