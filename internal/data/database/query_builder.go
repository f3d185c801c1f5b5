// Package database contains small SQL construction helpers shared by the
// repositories. It builds parameterized list queries from typed options so
// filter combinations never concatenate user input into SQL.
package database

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionType enumerates the supported WHERE operators.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	Like               ConditionType = "LIKE"
	ILike              ConditionType = "ILIKE"
	IsNull             ConditionType = "IS NULL"
)

// Condition is one WHERE clause term.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a Condition for the given field, operator, and value.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes a SELECT over one table with filters, ordering,
// and paging. Zero Limit/Offset omit the corresponding clause.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions during construction.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions builds options for the given table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{Table: table}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the selected columns.
func WithColumns(columns ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = columns }
}

// WithCondition appends a WHERE condition; conditions are ANDed together.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the ORDER BY column and direction. Callers must validate
// both against an allowlist before passing them in.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the LIMIT clause.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) { o.Limit = limit }
}

// WithOffset sets the OFFSET clause.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) { o.Offset = offset }
}

// BuildListQuery renders the options into SQL with positional parameters and
// the matching argument slice.
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(o.Conditions)+2)

	sb.WriteString("SELECT ")
	if len(o.Columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(o.Columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(o.Table)

	if len(o.Conditions) > 0 {
		sb.WriteString(" WHERE ")
		terms := make([]string, 0, len(o.Conditions))
		for _, cond := range o.Conditions {
			if cond.Type == IsNull {
				terms = append(terms, cond.Field+" IS NULL")
				continue
			}
			args = append(args, cond.Value)
			terms = append(terms, fmt.Sprintf("%s %s $%d", cond.Field, cond.Type, len(args)))
		}
		sb.WriteString(strings.Join(terms, " AND "))
	}

	if o.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(o.OrderBy)
		if o.OrderDir != "" {
			sb.WriteString(" ")
			sb.WriteString(strings.ToUpper(o.OrderDir))
		}
	}

	if o.Limit > 0 {
		args = append(args, o.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if o.Offset > 0 {
		args = append(args, o.Offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	return sb.String(), args
}
