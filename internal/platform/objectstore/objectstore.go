package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ModeLocal = "local"
	ModeS3    = "s3"
)

var ErrNotFound = errors.New("object not found")

// Store keeps uploaded résumé files. Keys are slash separated and relative.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Mode() string
}

// ResumeKey builds a versioned key so re-uploads never overwrite each other.
func ResumeKey(userID uuid.UUID, filename string, now time.Time) string {
	name := sanitizeName(filename)
	if name == "" {
		name = "resume"
	}
	return fmt.Sprintf("resumes/%s/%d-%s", userID.String(), now.UnixNano(), name)
}

func sanitizeName(filename string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("object key required")
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}
