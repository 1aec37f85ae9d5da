package scope

import "strings"

// Predicate is a composable SQL condition fragment using ? bindvars.
// Repositories rebind the final clause to the driver's placeholder style
// (sqlx.Rebind). The zero value matches every row.
type Predicate struct {
	sql  string
	args []interface{}
}

// Cond builds a predicate from a raw condition and its arguments.
func Cond(sql string, args ...interface{}) Predicate {
	return Predicate{sql: sql, args: args}
}

// All matches every row (no restriction).
func All() Predicate {
	return Predicate{}
}

// None matches no rows. It is the fail-closed scope for unknown callers.
func None() Predicate {
	return Predicate{sql: "FALSE"}
}

// Empty reports whether the predicate imposes no restriction.
func (p Predicate) Empty() bool {
	return p.sql == ""
}

// SQL returns the condition text, or "TRUE" for the unrestricted predicate
// so the result can always be embedded in a WHERE clause.
func (p Predicate) SQL() string {
	if p.sql == "" {
		return "TRUE"
	}
	return p.sql
}

// Args returns the bind arguments in positional order.
func (p Predicate) Args() []interface{} {
	return p.args
}

// And intersects predicates. Unrestricted operands are dropped; each kept
// operand is parenthesised so nested ORs keep their grouping.
func And(ps ...Predicate) Predicate {
	return combine(ps, " AND ")
}

// Or unions predicates. An unrestricted operand makes the whole predicate
// unrestricted.
func Or(ps ...Predicate) Predicate {
	for _, p := range ps {
		if p.Empty() {
			return All()
		}
	}
	return combine(ps, " OR ")
}

func combine(ps []Predicate, sep string) Predicate {
	kept := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if !p.Empty() {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return All()
	case 1:
		return kept[0]
	}

	parts := make([]string, 0, len(kept))
	var args []interface{}
	for _, p := range kept {
		parts = append(parts, "("+p.sql+")")
		args = append(args, p.args...)
	}
	return Predicate{sql: strings.Join(parts, sep), args: args}
}
