package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/format"
)

type Validator func(Input) error

// Spec declares one template. System and User are text/template sources
// rendered against a view of the Input.
type Spec struct {
	Kind         coaching.TemplateKind
	System       string
	User         string
	WithSelected bool
	Validators   []Validator
}

type Template struct {
	Kind     coaching.TemplateKind
	Shape    format.Shape
	System   func(view) (string, error)
	User     func(view) (string, error)
	Validate Validator
	// selected asks score_and_gaps prompts for the SELECTED label too
	selected bool
}

func MakeTemplate(s Spec) (Template, error) {
	if !s.Kind.Valid() {
		return Template{}, fmt.Errorf("unknown template kind %q", s.Kind)
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Kind, err)
	}
	userT, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Kind, err)
	}
	render := func(t *template.Template, v view) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, v); err != nil {
			return "", err
		}
		return strings.TrimSpace(b.String()), nil
	}
	tt := Template{
		Kind:     s.Kind,
		Shape:    format.ShapeFor(s.Kind),
		System:   func(v view) (string, error) { return render(sysT, v) },
		User:     func(v view) (string, error) { return render(userT, v) },
		selected: s.WithSelected,
	}
	if len(s.Validators) > 0 {
		validators := s.Validators
		tt.Validate = func(in Input) error {
			for _, v := range validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return tt, nil
}

func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	registry[t.Kind] = t
}

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input) error {
		if strings.TrimSpace(get(in)) == "" {
			return fmt.Errorf("%s required", field)
		}
		return nil
	}
}

func RequireAny(msg string, checks ...func(Input) bool) Validator {
	return func(in Input) error {
		for _, ok := range checks {
			if ok(in) {
				return nil
			}
		}
		return fmt.Errorf("%s", msg)
	}
}
