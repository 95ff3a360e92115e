package logql

import (
	"strconv"
	"strings"
)

// Record is the view of a log record the evaluator needs.
type Record interface {
	GetID() int64
	GetCreated() int64
	GetLevel() string
	GetTag() string
	GetMessage() string
}

// Match reports whether r satisfies node. A nil node matches everything.
func Match(node Node, r Record) bool {
	switch n := node.(type) {
	case nil:
		return true
	case BinaryExpr:
		if n.Op == OpOr {
			return Match(n.Left, r) || Match(n.Right, r)
		}
		return Match(n.Left, r) && Match(n.Right, r)
	case NotExpr:
		return !Match(n.Expr, r)
	case MatchExpr:
		return n.match(r)
	}
	return false
}

func (m MatchExpr) match(r Record) bool {
	var hit bool
	switch m.Field {
	case FieldText:
		return foldContains(r.GetTag(), m.Value) || foldContains(r.GetMessage(), m.Value)
	case FieldTag:
		hit = m.compare(r.GetTag())
	case FieldMessage:
		hit = m.compare(r.GetMessage())
	case FieldLevel:
		hit = m.compareLevel(r.GetLevel())
	case FieldID:
		hit = m.compare(strconv.FormatInt(r.GetID(), 10))
	case FieldCreated:
		hit = m.compare(strconv.FormatInt(r.GetCreated(), 10))
	}
	if m.Op == OpNeq {
		return !hit
	}
	return hit
}

// compare is case-insensitive. OpNeq is treated as OpEq and negated by the
// caller.
func (m MatchExpr) compare(v string) bool {
	if m.Op == OpContains {
		return foldContains(v, m.Value)
	}
	return strings.EqualFold(v, m.Value)
}

// compareLevel also accepts the one-letter code, so level:W matches WARN.
func (m MatchExpr) compareLevel(level string) bool {
	if m.Op != OpContains && len(m.Value) == 1 && level != "" {
		return strings.EqualFold(level[:1], m.Value)
	}
	return m.compare(level)
}

func foldContains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
