package prompts

import (
	"fmt"
	"strings"
)

const (
	MaxResumeRunes  = 12000
	ResumeHeadRunes = 9000
	ResumeTailRunes = 3000

	// MaxHistoryTurns is ten user/assistant exchanges.
	MaxHistoryTurns = 20
	MaxTurnRunes    = 2000
)

// TruncateResume keeps the head and tail of an over-long résumé with a marker
// naming how much was cut from the middle.
func TruncateResume(text string) (string, bool) {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= MaxResumeRunes {
		return text, false
	}
	omitted := len(r) - ResumeHeadRunes - ResumeTailRunes
	return string(r[:ResumeHeadRunes]) +
		fmt.Sprintf("\n[... %d characters omitted ...]\n", omitted) +
		string(r[len(r)-ResumeTailRunes:]), true
}

// BoundHistory keeps the most recent MaxHistoryTurns turns and caps each one.
func BoundHistory(turns []Turn) []Turn {
	if len(turns) > MaxHistoryTurns {
		turns = turns[len(turns)-MaxHistoryTurns:]
	}
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		out = append(out, Turn{Role: t.Role, Content: capRunes(content, MaxTurnRunes)})
	}
	return out
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
