package postgres

import (
	"strconv"
	"strings"
)

// selectQuery is assembled from scopes so that owner scoping, association
// filters and ordering compose without string juggling at call sites.
type selectQuery struct {
	columns string
	from    string
	where   []string
	args    []any
	order   string
}

type scope func(q *selectQuery)

func newSelect(columns, from string) *selectQuery {
	return &selectQuery{columns: columns, from: from}
}

// bind registers a positional argument and returns its placeholder.
func (q *selectQuery) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *selectQuery) apply(scopes ...scope) *selectQuery {
	for _, s := range scopes {
		if s != nil {
			s(q)
		}
	}
	return q
}

func (q *selectQuery) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(q.columns)
	b.WriteString(" FROM ")
	b.WriteString(q.from)
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	if q.order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.order)
	}
	return b.String()
}

func (q *selectQuery) Args() []any { return q.args }

func scopeToOwner(col, ownerID string) scope {
	return func(q *selectQuery) {
		q.where = append(q.where, col+" = "+q.bind(ownerID))
	}
}

// referencedBy keeps rows that appear at least once in joinTable.fk.
// EXISTS keeps each row once however many recipes reference it.
func referencedBy(idCol, joinTable, fk string) scope {
	return func(q *selectQuery) {
		q.where = append(q.where, "EXISTS (SELECT 1 FROM "+joinTable+" j WHERE j."+fk+" = "+idCol+")")
	}
}

// linkedToAny keeps recipes linked through joinTable to any of ids.
func linkedToAny(idCol, joinTable, fk string, ids []int64) scope {
	if len(ids) == 0 {
		return nil
	}
	return func(q *selectQuery) {
		q.where = append(q.where, "EXISTS (SELECT 1 FROM "+joinTable+" j WHERE j.recipe_id = "+idCol+" AND j."+fk+" = ANY("+q.bind(ids)+"))")
	}
}

func idIn(col string, ids []int64) scope {
	if ids == nil {
		return nil
	}
	return func(q *selectQuery) {
		q.where = append(q.where, col+" = ANY("+q.bind(ids)+")")
	}
}

func eq(col string, v any) scope {
	return func(q *selectQuery) {
		q.where = append(q.where, col+" = "+q.bind(v))
	}
}

func containsFold(col, s string) scope {
	if s == "" {
		return nil
	}
	return func(q *selectQuery) {
		q.where = append(q.where, col+" ILIKE "+q.bind("%"+escapeLike(s)+"%"))
	}
}

func orderBy(expr string) scope {
	return func(q *selectQuery) { q.order = expr }
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
