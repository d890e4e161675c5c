// Package format is the labeled response grammar shared by the prompt builder
// (which asks the model for it) and the interpreter (which accepts it).
//
//	SCORE: 72
//	SELECTED: yes
//	SUMMARY: one paragraph
//	STRENGTHS:
//	- Go
//	GAPS:
//	- Kubernetes
//	PHASE 1: Foundations
//	- Docker basics
package format

import (
	"regexp"
	"strings"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
)

type Shape string

const (
	ShapeScoreAndGaps Shape = "score_and_gaps"
	ShapePhasedPlan   Shape = "phased_plan"
	ShapeFreeText     Shape = "free_text"
)

const (
	LabelScore     = "SCORE"
	LabelSelected  = "SELECTED"
	LabelSummary   = "SUMMARY"
	LabelStrengths = "STRENGTHS"
	LabelGaps      = "GAPS"
	LabelPhase     = "PHASE"
)

// Field names reported in an interpreted result's unresolved list.
const (
	FieldScore     = "score"
	FieldGaps      = "gaps"
	FieldStrengths = "strengths"
	FieldSelected  = "selected"
	FieldSummary   = "summary"
	FieldPhases    = "phases"
)

func ShapeFor(kind coaching.TemplateKind) Shape {
	switch kind {
	case coaching.KindAnalysis, coaching.KindBulkAnalysis:
		return ShapeScoreAndGaps
	case coaching.KindLearningPlan:
		return ShapePhasedPlan
	default:
		return ShapeFreeText
	}
}

// Instructions is the output-format block appended to prompts of the given shape.
func Instructions(shape Shape, withSelected bool) string {
	switch shape {
	case ShapeScoreAndGaps:
		var b strings.Builder
		b.WriteString("Respond using exactly these labels, each on its own line:\n")
		b.WriteString(LabelScore + ": <integer from 0 to 100 rating how well the resume fits the role>\n")
		if withSelected {
			b.WriteString(LabelSelected + ": <yes or no, whether the candidate should be shortlisted>\n")
		}
		b.WriteString(LabelSummary + ": <two or three sentences>\n")
		b.WriteString(LabelStrengths + ":\n- <strength>\n")
		b.WriteString(LabelGaps + ":\n- <missing skill>\n")
		b.WriteString("List every gap as its own \"- \" bullet. Do not add other sections.")
		return b.String()
	case ShapePhasedPlan:
		return "Respond with between 2 and 5 phases. Start each phase with a line\n" +
			LabelPhase + " <n>: <phase title>\n" +
			"followed by its learning modules, one per line, each starting with \"- \".\n" +
			"A module line is the module name, optionally followed by \" | \" and a short resource hint.\n" +
			"Number phases from 1. Do not add other sections."
	default:
		return ""
	}
}

var (
	fenceLine   = regexp.MustCompile("^\\s*```[A-Za-z0-9_-]*\\s*$")
	headingMark = regexp.MustCompile(`^#{1,6}\s*`)
	emphasis    = regexp.MustCompile(`\*\*|__|\*|` + "`")
	bulletMark  = regexp.MustCompile(`^(?:[-*•+]|\d+[.)])\s+`)
	phaseHeader = regexp.MustCompile(`(?i)^(?:phase|stage)\s*(\d{1,2})\b\s*[:.)\-–]?\s*(.*)$`)
	labelLine   = regexp.MustCompile(`^([A-Za-z][A-Za-z _]{1,24}?)\s*:\s*(.*)$`)
)

// StripFences removes markdown code fence lines, keeping their contents.
func StripFences(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if fenceLine.MatchString(l) {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// Clean drops markdown headings and emphasis from a line.
func Clean(line string) string {
	s := strings.TrimSpace(line)
	s = headingMark.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Bullet reports whether a cleaned line is a list item and returns its text.
func Bullet(line string) (string, bool) {
	if loc := bulletMark.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:]), true
	}
	return "", false
}

// Label splits "LABEL: value" with a case-insensitive known label. The label is
// returned upper-cased.
func Label(line string) (string, string, bool) {
	m := labelLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name := strings.ToUpper(strings.Join(strings.Fields(m[1]), " "))
	switch name {
	case LabelScore, "FIT SCORE", "OVERALL SCORE", "MATCH SCORE":
		name = LabelScore
	case LabelSelected, "SHORTLISTED":
		name = LabelSelected
	case LabelSummary:
	case LabelStrengths:
	case LabelGaps, "SKILL GAPS", "MISSING SKILLS":
		name = LabelGaps
	default:
		return "", "", false
	}
	return name, strings.TrimSpace(m[2]), true
}

// Phase parses a "PHASE n: title" header.
func Phase(line string) (int, string, bool) {
	m := phaseHeader.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	n := 0
	for _, c := range m[1] {
		n = n*10 + int(c-'0')
	}
	return n, strings.TrimSpace(m[2]), true
}

// InlineList splits "a, b; c" into trimmed non-empty items.
func InlineList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "."))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsNone reports placeholder values a model writes for an empty field.
func IsNone(s string) bool {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), ".")) {
	case "", "none", "n/a", "na", "-", "null", "nil", "unknown":
		return true
	}
	return false
}
