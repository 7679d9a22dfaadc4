package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Operator is a filter comparison.
type Operator string

const (
	// OpEq matches documents whose field equals the value.
	OpEq Operator = "="
	// OpContainsAny matches documents whose list field holds at least one of the values.
	OpContainsAny Operator = "~"
)

// Condition is one predicate of a Filter.
type Condition struct {
	Field    string
	Operator Operator
	Values   []any
}

// Filter is an AND of conditions. The zero value matches every document.
type Filter struct {
	conditions []Condition
}

// Eq adds an equality condition.
func (f Filter) Eq(field string, value any) Filter {
	return f.with(Condition{Field: field, Operator: OpEq, Values: []any{value}})
}

// ContainsAny adds a list-membership condition. Without values it is a no-op.
func (f Filter) ContainsAny(field string, values ...string) Filter {
	if len(values) == 0 {
		return f
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.with(Condition{Field: field, Operator: OpContainsAny, Values: vals})
}

func (f Filter) with(c Condition) Filter {
	conds := make([]Condition, 0, len(f.conditions)+1)
	conds = append(conds, f.conditions...)
	return Filter{conditions: append(conds, c)}
}

// Conditions returns the filter predicates in insertion order.
func (f Filter) Conditions() []Condition {
	return f.conditions
}

// Empty reports whether the filter matches everything.
func (f Filter) Empty() bool {
	return len(f.conditions) == 0
}

// Key renders the filter canonically, e.g. "category=Brushes&tags~abstract".
func (f Filter) Key() string {
	if f.Empty() {
		return "all"
	}
	parts := make([]string, 0, len(f.conditions))
	for _, c := range f.conditions {
		vals := make([]string, len(c.Values))
		for i, v := range c.Values {
			vals[i] = fmt.Sprintf("%v", v)
		}
		parts = append(parts, c.Field+string(c.Operator)+strings.Join(vals, "|"))
	}
	return strings.Join(parts, "&")
}

// Apply adds the filter's WHERE clauses to q.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	for _, c := range f.conditions {
		switch c.Operator {
		case OpEq:
			q = q.Where(clause.Eq{Column: clause.Column{Name: c.Field}, Value: c.Values[0]})
		case OpContainsAny:
			q = q.Where(jsonContainsAny{column: c.Field, values: c.Values})
		}
	}
	return q
}

// jsonContainsAny matches rows whose JSON array column holds any of values.
// The SQL depends on the dialect of the statement being built.
type jsonContainsAny struct {
	column string
	values []any
}

// Build implements clause.Expression.
func (e jsonContainsAny) Build(builder clause.Builder) {
	dialect := ""
	if stmt, ok := builder.(*gorm.Statement); ok && stmt.Dialector != nil {
		dialect = stmt.Dialector.Name()
	}
	col := clause.Column{Name: e.column}

	if dialect == "sqlite" {
		builder.WriteString("EXISTS (SELECT 1 FROM json_each(CAST(")
		builder.WriteQuoted(col)
		builder.WriteString(" AS TEXT)) WHERE json_each.value IN ")
		builder.AddVar(builder, e.values)
		builder.WriteByte(')')
		return
	}

	if len(e.values) > 1 {
		builder.WriteByte('(')
	}
	for i, v := range e.values {
		if i > 0 {
			builder.WriteString(" OR ")
		}
		switch dialect {
		case "postgres":
			builder.WriteQuoted(col)
			builder.WriteString(" @> CAST(")
			builder.AddVar(builder, jsonArray(v))
			builder.WriteString(" AS jsonb)")
		case "mysql":
			builder.WriteString("JSON_CONTAINS(")
			builder.WriteQuoted(col)
			builder.WriteString(", JSON_ARRAY(")
			builder.AddVar(builder, v)
			builder.WriteString("))")
		default:
			elem := strings.TrimSuffix(strings.TrimPrefix(jsonArray(v), "["), "]")
			builder.WriteQuoted(col)
			builder.WriteString(" LIKE ")
			builder.AddVar(builder, "%"+elem+"%")
		}
	}
	if len(e.values) > 1 {
		builder.WriteByte(')')
	}
}

func jsonArray(v any) string {
	b, err := json.Marshal([]any{v})
	if err != nil {
		return "[]"
	}
	return string(b)
}
