package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var rolesYAML []byte

type Role struct {
	Name        string   `yaml:"name" json:"name"`
	Aliases     []string `yaml:"aliases" json:"-"`
	Description string   `yaml:"description" json:"description"`
	Skills      []string `yaml:"skills" json:"skills"`
}

type Catalog struct {
	roles   []Role
	byName  map[string]int
	aliases map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog is the embedded role catalog. It panics on a malformed
// embedded file since that can only happen at build time.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(rolesYAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCatalog
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Roles []Role `yaml:"roles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse role catalog: %w", err)
	}
	c := &Catalog{
		byName:  make(map[string]int, len(doc.Roles)),
		aliases: make(map[string]int),
	}
	for _, r := range doc.Roles {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return nil, fmt.Errorf("parse role catalog: role without name")
		}
		key := roleKey(r.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("parse role catalog: duplicate role %q", r.Name)
		}
		c.roles = append(c.roles, r)
		idx := len(c.roles) - 1
		c.byName[key] = idx
		for _, a := range r.Aliases {
			c.aliases[roleKey(a)] = idx
		}
	}
	return c, nil
}

func (c *Catalog) Roles() []Role {
	out := make([]Role, len(c.roles))
	copy(out, c.roles)
	return out
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.roles))
	for _, r := range c.roles {
		out = append(out, r.Name)
	}
	return out
}

// Lookup matches a role by name or alias, ignoring case and spacing.
func (c *Catalog) Lookup(name string) (Role, bool) {
	key := roleKey(name)
	if i, ok := c.byName[key]; ok {
		return c.roles[i], true
	}
	if i, ok := c.aliases[key]; ok {
		return c.roles[i], true
	}
	return Role{}, false
}

// Describe returns the catalog description of a role, or a generic one.
func (c *Catalog) Describe(name string) string {
	if r, ok := c.Lookup(name); ok {
		return fmt.Sprintf("%s: %s Core skills: %s.", r.Name, r.Description, strings.Join(r.Skills, ", "))
	}
	return fmt.Sprintf("%s: no catalog entry. Judge against the skills commonly expected for this role in the current job market.",
		strings.TrimSpace(name))
}

func roleKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
