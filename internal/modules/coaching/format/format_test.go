package format

import (
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
)

func TestLabel(t *testing.T) {
	cases := []struct {
		line      string
		wantLabel string
		wantValue string
		ok        bool
	}{
		{"SCORE: 72", LabelScore, "72", true},
		{"score : 72/100", LabelScore, "72/100", true},
		{"Missing Skills: Go, Rust", LabelGaps, "Go, Rust", true},
		{"Gaps:", LabelGaps, "", true},
		{"Selected: yes", LabelSelected, "yes", true},
		{"Note: something", "", "", false},
		{"- Kubernetes", "", "", false},
	}
	for _, tc := range cases {
		label, value, ok := Label(tc.line)
		if ok != tc.ok || label != tc.wantLabel || value != tc.wantValue {
			t.Fatalf("Label(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.line, label, value, ok, tc.wantLabel, tc.wantValue, tc.ok)
		}
	}
}

func TestCleanAndBullet(t *testing.T) {
	if got := Clean("## **SCORE:** 80"); got != "SCORE: 80" {
		t.Fatalf("Clean=%q", got)
	}
	for line, want := range map[string]string{
		"- Terraform":   "Terraform",
		"* AWS IAM":     "AWS IAM",
		"2. Kubernetes": "Kubernetes",
		"• Docker":      "Docker",
	} {
		got, ok := Bullet(line)
		if !ok || got != want {
			t.Fatalf("Bullet(%q)=(%q,%v) want %q", line, got, ok, want)
		}
	}
	if _, ok := Bullet("Kubernetes"); ok {
		t.Fatalf("plain line should not be a bullet")
	}
}

func TestPhase(t *testing.T) {
	n, title, ok := Phase("PHASE 2: Cloud fundamentals")
	if !ok || n != 2 || title != "Cloud fundamentals" {
		t.Fatalf("Phase = (%d, %q, %v)", n, title, ok)
	}
	n, title, ok = Phase("phase 3 - Capstone")
	if !ok || n != 3 || title != "Capstone" {
		t.Fatalf("Phase = (%d, %q, %v)", n, title, ok)
	}
	if _, _, ok := Phase("Phases are listed below"); ok {
		t.Fatalf("prose should not parse as a phase header")
	}
}

func TestStripFences(t *testing.T) {
	got := StripFences("```text\nSCORE: 1\n```")
	if strings.TrimSpace(got) != "SCORE: 1" {
		t.Fatalf("StripFences=%q", got)
	}
}

func TestInlineList(t *testing.T) {
	got := InlineList("Kubernetes, Terraform; Go.")
	want := []string{"Kubernetes", "Terraform", "Go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InlineList=%v want %v", got, want)
	}
}

func TestShapeFor(t *testing.T) {
	if ShapeFor(coaching.KindBulkAnalysis) != ShapeScoreAndGaps {
		t.Fatalf("bulk analysis should parse as score_and_gaps")
	}
	if ShapeFor(coaching.KindLearningPlan) != ShapePhasedPlan {
		t.Fatalf("learning plan should parse as phased_plan")
	}
	if ShapeFor(coaching.KindChatTurn) != ShapeFreeText {
		t.Fatalf("chat should be free text")
	}
}
