// Package resource is the shared CRUD machinery behind every API family:
// whitelisted query building for list endpoints, partial update assembly,
// existence and uniqueness guards, and cascading deletes. Handlers describe
// a resource once with a Descriptor and the engine does the rest.
package resource

import (
	"fmt"
	"strings"

	"coursehub/internal/validate"
)

// Child names a dependent table removed together with its parent.
type Child struct {
	Table      string
	ForeignKey string
}

// Descriptor is the static description of one resource table. Column slices
// act as whitelists: anything a client sends that is not listed falls back
// to the defaults, so user input never reaches SQL identifiers.
type Descriptor struct {
	Table         string
	KeyColumn     string
	SelectColumns []string
	SearchColumns []string
	SortColumns   []string
	DefaultSort   string
	DefaultOrder  string
	BaseFilter    string
	Children      []Child
}

// ListOptions carries the client-controlled list parameters.
type ListOptions struct {
	Search string
	Sort   string
	Order  string
}

// ListQuery builds a parameterized SELECT for the descriptor. The search term
// is bound as a single ILIKE parameter; sort column and direction are taken
// from the whitelist, silently falling back to the defaults.
func (d Descriptor) ListQuery(opts ListOptions) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, 1)

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(d.SelectColumns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(d.Table)

	where := make([]string, 0, 2)
	if d.BaseFilter != "" {
		where = append(where, d.BaseFilter)
	}
	if opts.Search != "" && len(d.SearchColumns) > 0 {
		args = append(args, "%"+opts.Search+"%")
		clauses := make([]string, len(d.SearchColumns))
		for i, col := range d.SearchColumns {
			clauses[i] = fmt.Sprintf("%s ILIKE $%d", col, len(args))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	b.WriteString(" ORDER BY ")
	b.WriteString(d.sortColumn(opts.Sort))
	b.WriteString(" ")
	b.WriteString(d.sortOrder(opts.Order))

	return b.String(), args
}

func (d Descriptor) sortColumn(requested string) string {
	return validate.Allowed(requested, d.DefaultSort, d.SortColumns...)
}

func (d Descriptor) sortOrder(requested string) string {
	fallback := validate.Order(d.DefaultOrder, "asc")
	return strings.ToUpper(validate.Order(requested, fallback))
}

// Field is one column assignment in a partial update.
type Field struct {
	Column string
	Value  any
}

// UpdateQuery builds a parameterized UPDATE for the given key. When touch is
// non-empty that column is set to now(). Returns ErrNoFields when the caller
// supplied nothing to change.
func (d Descriptor) UpdateQuery(key any, fields []Field, touch string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	var b strings.Builder
	args := make([]any, 0, len(fields)+1)

	b.WriteString("UPDATE ")
	b.WriteString(d.Table)
	b.WriteString(" SET ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s = $%d", f.Column, len(args))
	}
	if touch != "" {
		fmt.Fprintf(&b, ", %s = now()", touch)
	}
	args = append(args, key)
	fmt.Fprintf(&b, " WHERE %s = $%d", d.KeyColumn, len(args))

	return b.String(), args, nil
}
