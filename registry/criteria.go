package registry

import (
	"errors"
	"fmt"
)

// Claim-state filter values for grant listings
type ClaimedFilter int

const (
	ClaimedAny  ClaimedFilter = iota // no filtering on claim state
	ClaimedOnly                      // only claimed grants
	OpenOnly                         // only unclaimed grants
)

// Criteria validation errors
var (
	ErrInvalidClaimedFilter = errors.New("invalid claimed filter")
	ErrInvalidPerPage       = errors.New("invalid per_page")
)

// ParseClaimedFilter creates a ClaimedFilter from its query representation.
// "" means no filtering; "true"/"false" select claimed/unclaimed grants.
func ParseClaimedFilter(claimed string) (ClaimedFilter, error) {
	switch claimed {
	case "":
		return ClaimedAny, nil
	case "true":
		return ClaimedOnly, nil
	case "false":
		return OpenOnly, nil
	default:
		return ClaimedAny, fmt.Errorf("%w: %q", ErrInvalidClaimedFilter, claimed)
	}
}

// ListCriteria specifies criteria for listing grants using domain Value Objects
type ListCriteria struct {
	Claimed ClaimedFilter // Claim-state filter
	Page    Page          // 1-based page number
	Size    PerPage       // Items per page
}

// ItemsPerPage returns the number of items requested per page
func (c ListCriteria) ItemsPerPage() uint64 {
	return c.Size.Uint64()
}

// ItemsToSkip returns the number of items to skip for pagination
func (c ListCriteria) ItemsToSkip() uint64 {
	return (c.Page.Uint64() - 1) * c.Size.Uint64()
}

// NewListCriteria creates ListCriteria from raw values with validation
func NewListCriteria(claimed string, page, perPage uint64) (ListCriteria, error) {
	cf, err := ParseClaimedFilter(claimed)
	if err != nil {
		return ListCriteria{}, err
	}

	pp, err := ParsePerPageFromUint64(perPage)
	if err != nil {
		return ListCriteria{}, fmt.Errorf("%w: %w", ErrInvalidPerPage, err)
	}

	return ListCriteria{
		Claimed: cf,
		Page:    ParsePageFromUint64(page),
		Size:    pp,
	}, nil
}
