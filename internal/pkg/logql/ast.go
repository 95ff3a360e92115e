// Package logql is the filter language used to browse stored records:
//
//	tag:Net AND NOT level:D
//	msg~timeout OR (tag!=Ui "disk full")
//
// Juxtaposed terms are ANDed. A bare word or quoted string searches tag and
// message together.
package logql

import (
	"fmt"
	"strconv"
)

// Node is implemented by every expression in a parsed query.
type Node interface {
	fmt.Stringer
	node()
}

// Op is a logical or comparison operator.
type Op string

const (
	OpAnd      Op = "AND"
	OpOr       Op = "OR"
	OpEq       Op = ":"
	OpNeq      Op = "!="
	OpContains Op = "~"
)

// Field is the record attribute a MatchExpr compares.
type Field int

const (
	FieldText Field = iota // tag or message
	FieldTag
	FieldMessage
	FieldLevel
	FieldID
	FieldCreated
)

var fieldNames = map[string]Field{
	"tag":     FieldTag,
	"t":       FieldTag,
	"message": FieldMessage,
	"msg":     FieldMessage,
	"level":   FieldLevel,
	"lvl":     FieldLevel,
	"id":      FieldID,
	"created": FieldCreated,
	"ts":      FieldCreated,
}

func (f Field) String() string {
	switch f {
	case FieldTag:
		return "tag"
	case FieldMessage:
		return "msg"
	case FieldLevel:
		return "level"
	case FieldID:
		return "id"
	case FieldCreated:
		return "ts"
	default:
		return ""
	}
}

// BinaryExpr joins two expressions with OpAnd or OpOr.
type BinaryExpr struct {
	Op    Op
	Left  Node
	Right Node
}

func (BinaryExpr) node() {}

func (b BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

// MatchExpr compares one record field against a value.
type MatchExpr struct {
	Field Field
	Op    Op // OpEq, OpNeq or OpContains
	Value string
}

func (MatchExpr) node() {}

func (m MatchExpr) String() string {
	if m.Field == FieldText {
		return strconv.Quote(m.Value)
	}
	return m.Field.String() + string(m.Op) + strconv.Quote(m.Value)
}

// NotExpr negates Expr.
type NotExpr struct {
	Expr Node
}

func (NotExpr) node() {}

func (n NotExpr) String() string {
	return "NOT " + n.Expr.String()
}
