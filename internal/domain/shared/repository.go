package shared

import "strings"

// Filter represents query filter options for list operations
type Filter struct {
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "id",
		OrderDir: "asc",
	}
}

// OrderClause builds a safe ORDER BY clause restricted to the allowed columns.
// Unknown columns fall back to "id asc".
func (f Filter) OrderClause(allowed ...string) string {
	column := "id"
	for _, a := range allowed {
		if strings.EqualFold(a, f.OrderBy) {
			column = a
			break
		}
	}
	dir := "asc"
	if strings.EqualFold(f.OrderDir, "desc") {
		dir = "desc"
	}
	return column + " " + dir
}
