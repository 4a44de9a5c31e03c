package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edufund/grantry/registry"
)

func TestParsePageFromUint64(t *testing.T) {
	t.Parallel()

	t.Run("when page is zero", func(t *testing.T) {
		t.Parallel()

		// Act
		page := registry.ParsePageFromUint64(0)

		// Assert
		assert.Equal(t, registry.Page(registry.DefaultPage), page, "Zero should default to first page")
	})

	t.Run("when page is positive", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name         string
			input        uint64
			expectedPage registry.Page
		}{
			{
				name:         "first page",
				input:        1,
				expectedPage: registry.Page(1),
			},
			{
				name:         "high page number",
				input:        999,
				expectedPage: registry.Page(999),
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				// Act
				page := registry.ParsePageFromUint64(tc.input)

				// Assert
				assert.Equal(t, tc.expectedPage, page)
				assert.Equal(t, tc.input, page.Uint64())
			})
		}
	})
}

func TestParsePerPageFromUint64(t *testing.T) {
	t.Parallel()

	t.Run("when per_page is zero", func(t *testing.T) {
		t.Parallel()

		// Act
		perPage, err := registry.ParsePerPageFromUint64(0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, registry.PerPage(registry.DefaultPerPage), perPage, "Zero should default to %d", registry.DefaultPerPage)
	})

	t.Run("boundary values", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name        string
			input       uint64
			shouldError bool
		}{
			{
				name:        "one (minimum valid)",
				input:       1,
				shouldError: false,
			},
			{
				name:        "maximum valid",
				input:       registry.MaxPerPage,
				shouldError: false,
			},
			{
				name:        "one above maximum",
				input:       registry.MaxPerPage + 1,
				shouldError: true,
			},
			{
				name:        "very large value",
				input:       999999,
				shouldError: true,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				// Act
				perPage, err := registry.ParsePerPageFromUint64(tc.input)

				// Assert
				if tc.shouldError {
					assert.ErrorIs(t, err, registry.ErrPerPageTooLarge)
					assert.Equal(t, registry.PerPage(0), perPage, "Should return zero value on error")
				} else {
					require.NoError(t, err)
					assert.Equal(t, registry.PerPage(tc.input), perPage)
				}
			})
		}
	})
}

func TestGrantsPage_Navigation(t *testing.T) {
	t.Parallel()

	t.Run("it has a next page only when more grants follow", func(t *testing.T) {
		t.Parallel()

		assert.True(t, (&registry.GrantsPage{HasMore: true}).HasNext())
		assert.False(t, (&registry.GrantsPage{HasMore: false}).HasNext())
	})

	t.Run("it has a previous page only beyond the first", func(t *testing.T) {
		t.Parallel()

		assert.False(t, (&registry.GrantsPage{Number: registry.Page(1)}).HasPrevious())
		assert.True(t, (&registry.GrantsPage{Number: registry.Page(2)}).HasPrevious())
		assert.True(t, (&registry.GrantsPage{Number: registry.Page(10)}).HasPrevious())
	})
}
