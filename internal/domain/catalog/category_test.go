package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates active root category", func(t *testing.T) {
		category, err := NewCategory("Home & Garden")

		require.NoError(t, err)
		assert.Equal(t, "Home & Garden", category.Name)
		assert.Equal(t, "home-garden", category.Slug)
		assert.True(t, category.IsActive)
		assert.True(t, category.IsRoot())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("")
		assert.Error(t, err)
	})
}

func TestNewChildCategory(t *testing.T) {
	parent, err := NewCategory("Electronics")
	require.NoError(t, err)

	child, err := NewChildCategory("Headphones", parent)
	require.NoError(t, err)

	assert.False(t, child.IsRoot())
	assert.Equal(t, parent.ID, *child.ParentID)
}

func TestCategory_Update(t *testing.T) {
	category, err := NewCategory("Electronics")
	require.NoError(t, err)

	require.NoError(t, category.Update("Gadgets", "All kinds of gadgets"))
	assert.Equal(t, "Gadgets", category.Name)
	assert.Equal(t, "All kinds of gadgets", category.Description)
	// Slug is stable across renames so URLs don't break
	assert.Equal(t, "electronics", category.Slug)

	assert.Error(t, category.Update("", ""))
}

func TestCategory_ActivateDeactivate(t *testing.T) {
	category, err := NewCategory("Electronics")
	require.NoError(t, err)

	category.Deactivate()
	assert.False(t, category.IsActive)

	category.Activate()
	assert.True(t, category.IsActive)
}

func TestSupplier(t *testing.T) {
	t.Run("creates active supplier", func(t *testing.T) {
		supplier, err := NewSupplier("Acme Wholesale", "Sales@Acme.example", 2, 10)

		require.NoError(t, err)
		assert.True(t, supplier.IsActive)
		assert.Equal(t, "sales@acme.example", supplier.Email)
		assert.Equal(t, 1, supplier.MinimumOrder)
	})

	t.Run("rejects inverted shipping window", func(t *testing.T) {
		_, err := NewSupplier("Acme", "sales@acme.example", 10, 2)
		assert.Error(t, err)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewSupplier("Acme", "", 1, 5)
		assert.Error(t, err)
	})
}
