package pgxstore

import (
	"fmt"

	"github.com/edufund/grantry/registry"
)

// SQL queries
const (
	baseGrantsQuery = "SELECT id, name, amount, donor, recipient, funded, claimed, created_at, claimed_at FROM grants"
)

// GrantsQueryBuilder provides a domain-specific language for building grant listing queries
type GrantsQueryBuilder struct {
	sql  string
	args []any
}

// NewGrantsQuery creates a new grant listing query builder
func NewGrantsQuery() *GrantsQueryBuilder {
	return &GrantsQueryBuilder{
		sql: baseGrantsQuery,
	}
}

// ForCriteria applies the listing criteria to the query in one fluent call
func (q *GrantsQueryBuilder) ForCriteria(criteria registry.ListCriteria) *GrantsQueryBuilder {
	return q.
		filterByClaimed(criteria.Claimed).
		orderByID().
		paginateWithDetection(criteria)
}

// filterByClaimed adds claim-state filtering when a filter is set
func (q *GrantsQueryBuilder) filterByClaimed(filter registry.ClaimedFilter) *GrantsQueryBuilder {
	switch filter {
	case registry.ClaimedOnly:
		q.addWhereCondition("claimed = $%d", true)
	case registry.OpenOnly:
		q.addWhereCondition("claimed = $%d", false)
	}
	return q
}

// orderByID orders grants by id; insertion order equals id order
func (q *GrantsQueryBuilder) orderByID() *GrantsQueryBuilder {
	q.sql += " ORDER BY id"
	return q
}

// paginateWithDetection adds pagination with "has more" detection using LIMIT n+1
func (q *GrantsQueryBuilder) paginateWithDetection(criteria registry.ListCriteria) *GrantsQueryBuilder {
	// Request one extra item to detect if there are more pages
	limit := criteria.ItemsPerPage() + 1
	offset := criteria.ItemsToSkip()

	q.addParameter("LIMIT $%d", limit)

	if offset > 0 {
		q.addParameter("OFFSET $%d", offset)
	}

	return q
}

// Build returns the final SQL query and arguments
func (q *GrantsQueryBuilder) Build() (string, []any) {
	return q.sql, q.args
}

// Helper methods for building SQL

// addWhereCondition adds a WHERE condition, handling AND logic automatically
func (q *GrantsQueryBuilder) addWhereCondition(sqlClause string, value any) {
	placeholder := q.nextPlaceholder()

	if q.hasWhereClause() {
		q.sql += " AND " + fmt.Sprintf(sqlClause, placeholder)
	} else {
		q.sql += " WHERE " + fmt.Sprintf(sqlClause, placeholder)
	}

	q.args = append(q.args, value)
}

// addParameter adds a SQL clause with a parameter
func (q *GrantsQueryBuilder) addParameter(sqlClause string, value any) {
	placeholder := q.nextPlaceholder()
	q.sql += " " + fmt.Sprintf(sqlClause, placeholder)
	q.args = append(q.args, value)
}

// hasWhereClause checks if the query already has a WHERE clause
func (q *GrantsQueryBuilder) hasWhereClause() bool {
	return len(q.args) > 0
}

// nextPlaceholder returns the next PostgreSQL placeholder ($1, $2, etc.)
func (q *GrantsQueryBuilder) nextPlaceholder() int {
	return len(q.args) + 1
}
