package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edufund/grantry/registry"
)

func TestParseClaimedFilter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		input          string
		expectedFilter registry.ClaimedFilter
		shouldError    bool
	}{
		{
			name:           "empty means no filtering",
			input:          "",
			expectedFilter: registry.ClaimedAny,
		},
		{
			name:           "true selects claimed grants",
			input:          "true",
			expectedFilter: registry.ClaimedOnly,
		},
		{
			name:           "false selects open grants",
			input:          "false",
			expectedFilter: registry.OpenOnly,
		},
		{
			name:        "anything else is rejected",
			input:       "yes",
			shouldError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			filter, err := registry.ParseClaimedFilter(tc.input)

			// Assert
			if tc.shouldError {
				assert.ErrorIs(t, err, registry.ErrInvalidClaimedFilter)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedFilter, filter)
			}
		})
	}
}

func TestNewListCriteria(t *testing.T) {
	t.Parallel()

	t.Run("it builds criteria from raw query values", func(t *testing.T) {
		t.Parallel()

		// Act
		criteria, err := registry.NewListCriteria("true", 3, 20)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, registry.ClaimedOnly, criteria.Claimed)
		assert.Equal(t, uint64(20), criteria.ItemsPerPage())
		assert.Equal(t, uint64(40), criteria.ItemsToSkip(), "Page 3 with 20 per page skips 40 items")
	})

	t.Run("it applies defaults for zero page and per_page", func(t *testing.T) {
		t.Parallel()

		// Act
		criteria, err := registry.NewListCriteria("", 0, 0)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uint64(registry.DefaultPerPage), criteria.ItemsPerPage())
		assert.Equal(t, uint64(0), criteria.ItemsToSkip())
	})

	t.Run("it rejects an invalid claimed filter", func(t *testing.T) {
		t.Parallel()

		// Act
		_, err := registry.NewListCriteria("maybe", 1, 10)

		// Assert
		assert.ErrorIs(t, err, registry.ErrInvalidClaimedFilter)
	})

	t.Run("it rejects an oversized per_page", func(t *testing.T) {
		t.Parallel()

		// Act
		_, err := registry.NewListCriteria("", 1, registry.MaxPerPage+1)

		// Assert
		assert.ErrorIs(t, err, registry.ErrInvalidPerPage)
	})
}
