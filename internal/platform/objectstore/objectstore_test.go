package objectstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(logger.Nop(), t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	key := "resumes/u1/cv.pdf"
	if err := s.Put(ctx, key, []byte("hello"), "application/pdf"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("Get=%q, want hello", got)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err=%v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(logger.Nop(), t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	for _, key := range []string{"", "../etc/passwd", "a/../../b", "a//b"} {
		if err := s.Put(context.Background(), key, []byte("x"), ""); err == nil {
			t.Fatalf("Put(%q) succeeded, want error", key)
		}
	}
}

func TestResumeKey(t *testing.T) {
	id := uuid.MustParse("7d1f0a6e-3d0b-4b8e-9b1e-2f1a3c4d5e6f")
	now := time.Unix(0, 42)
	cases := map[string]string{
		"My CV (final).pdf":  "My_CV__final_.pdf",
		"../../secret.txt":   "secret.txt",
		`C:\docs\resume.docx`: "resume.docx",
		"":                   "resume",
	}
	for in, want := range cases {
		got := ResumeKey(id, in, now)
		if !strings.HasPrefix(got, "resumes/"+id.String()+"/42-") {
			t.Fatalf("ResumeKey(%q)=%q, bad prefix", in, got)
		}
		if !strings.HasSuffix(got, "-"+want) {
			t.Fatalf("ResumeKey(%q)=%q, want suffix %q", in, got, want)
		}
	}
}
