package model

import (
	"fmt"
	"strings"
)

// ModuleSpec describes one training module and the ordered set of skills it
// trains. The catalog is an explicit ordered list so ranked-query tie-breaks
// and module-selection tie-breaks are reproducible.
type ModuleSpec struct {
	ID     string   `json:"id" koanf:"id"`
	Name   string   `json:"name" koanf:"name"`
	Skills []string `json:"skills" koanf:"skills"`
}

// SkillSpec optionally overrides a skill's display name and category.
type SkillSpec struct {
	ID       string `json:"id" koanf:"id"`
	Name     string `json:"name" koanf:"name"`
	Category string `json:"category" koanf:"category"`
}

// Catalog is the static, read-only mapping from module id to trained skills.
// It defines the universe of valid module and skill identifiers and their
// canonical insertion order. Never mutated after construction.
type Catalog struct {
	modules   []ModuleSpec
	modulePos map[string]int

	skillIDs []string // first-appearance order across module specs
	skillPos map[string]int
	skills   map[string]SkillSpec
}

// NewCatalog builds a catalog from ordered module specs and optional skill
// overrides. Duplicate module ids and modules with no skills are rejected.
func NewCatalog(modules []ModuleSpec, skills []SkillSpec) (*Catalog, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("%w: no modules", ErrEmptyCatalog)
	}

	c := &Catalog{
		modulePos: make(map[string]int, len(modules)),
		skillPos:  make(map[string]int),
		skills:    make(map[string]SkillSpec),
	}

	for _, m := range modules {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: module with empty id", ErrInvalidCatalog)
		}
		if _, dup := c.modulePos[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate module %q", ErrInvalidCatalog, m.ID)
		}
		if len(m.Skills) == 0 {
			return nil, fmt.Errorf("%w: module %q trains no skills", ErrInvalidCatalog, m.ID)
		}
		if m.Name == "" {
			m.Name = titleize(m.ID)
		}
		c.modulePos[m.ID] = len(c.modules)
		c.modules = append(c.modules, m)

		for _, sk := range m.Skills {
			if _, seen := c.skillPos[sk]; !seen {
				c.skillPos[sk] = len(c.skillIDs)
				c.skillIDs = append(c.skillIDs, sk)
				c.skills[sk] = SkillSpec{ID: sk, Name: titleize(sk)}
			}
		}
	}

	for _, sp := range skills {
		if _, known := c.skillPos[sp.ID]; !known {
			return nil, fmt.Errorf("%w: skill %q not trained by any module", ErrInvalidCatalog, sp.ID)
		}
		if sp.Name == "" {
			sp.Name = titleize(sp.ID)
		}
		c.skills[sp.ID] = sp
	}

	return c, nil
}

// ModuleIDs returns all module ids in catalog order.
func (c *Catalog) ModuleIDs() []string {
	ids := make([]string, len(c.modules))
	for i, m := range c.modules {
		ids[i] = m.ID
	}
	return ids
}

// Modules returns the module specs in catalog order. Callers must not mutate.
func (c *Catalog) Modules() []ModuleSpec {
	return c.modules
}

// ModuleSkills returns the ordered skills a module trains.
// The second result is false for unknown module ids.
func (c *Catalog) ModuleSkills(moduleID string) ([]string, bool) {
	pos, ok := c.modulePos[moduleID]
	if !ok {
		return nil, false
	}
	return c.modules[pos].Skills, true
}

// ModulePosition returns a module's catalog position for tie-breaking.
func (c *Catalog) ModulePosition(moduleID string) (int, bool) {
	pos, ok := c.modulePos[moduleID]
	return pos, ok
}

// ModuleName returns a module's display name, falling back to its id.
func (c *Catalog) ModuleName(moduleID string) string {
	pos, ok := c.modulePos[moduleID]
	if !ok {
		return moduleID
	}
	return c.modules[pos].Name
}

// SkillIDs returns all skill ids in catalog insertion order.
func (c *Catalog) SkillIDs() []string {
	return c.skillIDs
}

// SkillPosition returns a skill's catalog position for tie-breaking.
func (c *Catalog) SkillPosition(skillID string) (int, bool) {
	pos, ok := c.skillPos[skillID]
	return pos, ok
}

// SkillSpec returns the display spec for a skill. Unknown skills get a
// derived spec so silently-created skills still render.
func (c *Catalog) Skill(skillID string) SkillSpec {
	if sp, ok := c.skills[skillID]; ok {
		return sp
	}
	return SkillSpec{ID: skillID, Name: titleize(skillID)}
}

// NumModules returns the module count.
func (c *Catalog) NumModules() int { return len(c.modules) }

// NumSkills returns the skill count.
func (c *Catalog) NumSkills() int { return len(c.skillIDs) }

// titleize turns an identifier like "working-memory" into "Working Memory".
func titleize(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DefaultCatalog returns the built-in cognitive training catalog used when
// no catalog is configured.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultModules(), DefaultSkills())
	if err != nil {
		// The built-in specs are static; failing to build them is a bug.
		panic(err)
	}
	return c
}

// DefaultModules returns the built-in ordered module specs.
func DefaultModules() []ModuleSpec {
	return []ModuleSpec{
		{ID: "memory-matrix", Skills: []string{"working-memory", "visual-recall"}},
		{ID: "sequence-recall", Skills: []string{"working-memory", "attention"}},
		{ID: "speed-sort", Skills: []string{"processing-speed", "attention"}},
		{ID: "focus-filter", Skills: []string{"attention", "processing-speed"}},
		{ID: "logic-grid", Skills: []string{"reasoning", "planning"}},
		{ID: "word-ladder", Skills: []string{"vocabulary", "reasoning"}},
		{ID: "pattern-shift", Skills: []string{"visual-recall", "planning"}},
	}
}

// DefaultSkills returns display overrides for the built-in skills.
func DefaultSkills() []SkillSpec {
	return []SkillSpec{
		{ID: "working-memory", Name: "Working Memory", Category: "memory"},
		{ID: "visual-recall", Name: "Visual Recall", Category: "memory"},
		{ID: "attention", Name: "Attention", Category: "focus"},
		{ID: "processing-speed", Name: "Processing Speed", Category: "speed"},
		{ID: "reasoning", Name: "Reasoning", Category: "logic"},
		{ID: "planning", Name: "Planning", Category: "logic"},
		{ID: "vocabulary", Name: "Vocabulary", Category: "language"},
	}
}
