package query

import "strings"

// Clause is one piece of a Scryfall search expression.
type Clause interface {
	// Render returns the clause text, or "" when the clause is empty and
	// must be left out of the query.
	Render() string
}

// Operators used by the structured filters. User-supplied comparison
// operators are passed through as plain strings.
const (
	OpMatch = ":"
	OpGTE   = ">="
	OpLTE   = "<="
)

// Term is field<op>value, e.g. cmc>=6 or artist:"Rebecca Guay".
// A Term without a field renders its value alone.
type Term struct {
	Field    string
	Operator string
	Value    string
	Quoted   bool
}

func (t Term) Render() string {
	if t.Value == "" {
		return ""
	}
	value := t.Value
	if t.Quoted {
		value = `"` + value + `"`
	}
	if t.Field == "" {
		return value
	}
	return t.Field + t.Operator + value
}

// Match builds field:value.
func Match(field, value string) Term {
	return Term{Field: field, Operator: OpMatch, Value: value}
}

// Phrase builds field:"value", for free text that may contain spaces.
func Phrase(field, value string) Term {
	return Term{Field: field, Operator: OpMatch, Value: value, Quoted: true}
}

// Compare builds field<op>value with the operator inserted verbatim.
func Compare(field, op, value string) Term {
	return Term{Field: field, Operator: op, Value: value}
}

// JoinMode decides how a Group combines its members.
type JoinMode int

const (
	// JoinAnd juxtaposes members, which Scryfall reads as AND.
	JoinAnd JoinMode = iota
	// JoinOr parenthesizes members separated by OR.
	JoinOr
)

// Group combines clauses with a single join mode.
type Group struct {
	Join    JoinMode
	Clauses []Clause
}

// AnyOf is an OR group.
func AnyOf(clauses ...Clause) Group { return Group{Join: JoinOr, Clauses: clauses} }

// AllOf is an AND group.
func AllOf(clauses ...Clause) Group { return Group{Join: JoinAnd, Clauses: clauses} }

func (g Group) Render() string {
	parts := renderAll(g.Clauses)
	if len(parts) == 0 {
		return ""
	}
	if g.Join == JoinAnd {
		return strings.Join(parts, " ")
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Raw is a fragment appended exactly as given.
type Raw string

func (r Raw) Render() string { return string(r) }

func renderAll(clauses []Clause) []string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c == nil {
			continue
		}
		if s := c.Render(); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// Builder accumulates top-level clauses; String serializes them once.
type Builder struct {
	clauses []Clause
}

// Add appends clauses. Nil and empty clauses are dropped at render time.
func (b *Builder) Add(clauses ...Clause) *Builder {
	b.clauses = append(b.clauses, clauses...)
	return b
}

// Clauses returns what has been added so far.
func (b *Builder) Clauses() []Clause {
	return b.clauses
}

func (b *Builder) String() string {
	return strings.Join(renderAll(b.clauses), " ")
}
