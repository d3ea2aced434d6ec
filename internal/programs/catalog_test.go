package programs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackCatalog(t *testing.T) {
	c := Fallback()
	require.Equal(t, 5, c.Len())

	p, ok := c.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "Técnico laboral en mercadeo y ventas", p.Name)

	assert.Equal(t, "", c.NameFor("999"))
	assert.Equal(t, "Técnico laboral en contabilidad y finanzas", c.NameFor("5"))
}

func TestNewCatalogSkipsBlankAndDuplicateIDs(t *testing.T) {
	c := NewCatalog([]Program{
		{ID: "a", Name: "First"},
		{ID: " ", Name: "Blank"},
		{ID: "a", Name: "Duplicate"},
		{ID: " b ", Name: "Second"},
	})
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "First", c.NameFor("a"))
	assert.Equal(t, "Second", c.NameFor("b"))
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	c := Fallback()
	items := c.All()
	items[0].Name = "changed"
	assert.NotEqual(t, "changed", c.All()[0].Name)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("1")
	assert.False(t, ok)
	assert.Nil(t, c.All())
	assert.Zero(t, c.Len())
}
