package programs

import "strings"

// Catalog is a read-only set of programs indexed by id.
type Catalog struct {
	items []Program
	byID  map[string]Program
}

func NewCatalog(items []Program) *Catalog {
	c := &Catalog{
		items: make([]Program, 0, len(items)),
		byID:  make(map[string]Program, len(items)),
	}
	for _, p := range items {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.items = append(c.items, p)
		c.byID[p.ID] = p
	}
	return c
}

// Fallback returns the fixed program set used when the live catalog is unavailable.
func Fallback() *Catalog {
	return NewCatalog(fallbackPrograms)
}

func (c *Catalog) Lookup(id string) (Program, bool) {
	if c == nil {
		return Program{}, false
	}
	p, ok := c.byID[id]
	return p, ok
}

// NameFor resolves a program id to its display name, or "" when unknown.
func (c *Catalog) NameFor(id string) string {
	p, _ := c.Lookup(id)
	return p.Name
}

func (c *Catalog) All() []Program {
	if c == nil {
		return nil
	}
	out := make([]Program, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
