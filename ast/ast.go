package ast

import (
	"github.com/shopspring/decimal"
)

// Identifier is an ASCII name matching [A-Za-z][A-Za-z0-9_-]*, max length
// 256. Term identifiers are stored bare (without the leading '-' used in
// source); the '-' is a syntax marker, not part of the id.
type Identifier string

// Resource is the root node: an ordered sequence of entries exactly as
// they appeared in source (including Junk).
type Resource struct {
	Entries []Entry
	Span    *Span
}

func (r *Resource) NodeSpan() *Span { return r.Span }

// Entry is implemented by Message, Term, Comment, and Junk — the four kinds
// of top-level Resource content.
type Entry interface {
	Node
	isEntry()
}

// Message is a top-level translatable unit. At least one of Value or a
// non-empty Attributes must be present (enforced by the validator, not the
// type system, since the parser must still be able to represent the
// momentarily-invalid intermediate state while recovering from errors).
type Message struct {
	ID         Identifier
	Value      *Pattern
	Attributes []*Attribute
	Comment    *Comment
	Span       *Span
}

func (m *Message) NodeSpan() *Span { return m.Span }
func (*Message) isEntry()          {}

// Term is a reusable, non-public translation unit. Unlike Message, Value is
// mandatory.
type Term struct {
	ID         Identifier
	Value      *Pattern
	Attributes []*Attribute
	Comment    *Comment
	Span       *Span
}

func (t *Term) NodeSpan() *Span { return t.Span }
func (*Term) isEntry()          {}

// Attribute is a named sub-pattern of a Message or Term (e.g. `.gender`).
type Attribute struct {
	ID    Identifier
	Value *Pattern
	Span  *Span
}

func (a *Attribute) NodeSpan() *Span { return a.Span }

// Pattern is a non-empty ordered sequence of text and placeables. Leading
// and trailing blank lines, and the common indentation of continuation
// lines, have already been stripped by the parser.
type Pattern struct {
	Elements []PatternElement
	Span     *Span
}

func (p *Pattern) NodeSpan() *Span { return p.Span }

// PatternElement is implemented by TextElement and Placeable.
type PatternElement interface {
	Node
	isPatternElement()
}

// TextElement is a run of literal text within a Pattern.
type TextElement struct {
	Value string
	Span  *Span
}

func (t *TextElement) NodeSpan() *Span   { return t.Span }
func (*TextElement) isPatternElement()   {}

// Placeable wraps an expression embedded in a Pattern via `{ ... }`. A
// Placeable is itself a valid Expression, so nested placeables (`{ { 1 } }`)
// are representable directly.
type Placeable struct {
	Expression Expression
	Span       *Span
}

func (p *Placeable) NodeSpan() *Span  { return p.Span }
func (*Placeable) isPatternElement()  {}
func (*Placeable) isExpression()      {}

// Expression is implemented by every inline-expression variant plus
// SelectExpression and Placeable (a nested placeable is itself a valid
// expression).
type Expression interface {
	Node
	isExpression()
}

// StringLiteral is a quoted string expression. Value holds the unescaped
// text; Raw holds the exact source text between the quotes, with escape
// sequences left un-expanded, so re-serialization and variant matching can
// both be exact.
type StringLiteral struct {
	Value string
	Raw   string
	Span  *Span
}

func (s *StringLiteral) NodeSpan() *Span { return s.Span }
func (*StringLiteral) isExpression()     {}

// NumberLiteral is a numeric expression. Value is the parsed Decimal,
// authoritative for numeric equality (`[1]` == `[1.0]`); Raw is the
// original source text, authoritative for display precision.
type NumberLiteral struct {
	Value decimal.Decimal
	Raw   string
	Span  *Span
}

func (n *NumberLiteral) NodeSpan() *Span { return n.Span }
func (*NumberLiteral) isExpression()     {}
func (*NumberLiteral) isVariantKey()     {}

// VariableReference is `$name`.
type VariableReference struct {
	ID   Identifier
	Span *Span
}

func (v *VariableReference) NodeSpan() *Span { return v.Span }
func (*VariableReference) isExpression()     {}

// MessageReference is `id` or `id.attribute` appearing inside a Placeable.
type MessageReference struct {
	ID        Identifier
	Attribute *Identifier // nil if no .attribute suffix
	Span      *Span
}

func (m *MessageReference) NodeSpan() *Span { return m.Span }
func (*MessageReference) isExpression()     {}

// TermReference is `-id`, `-id.attribute`, or `-id(args)`.
type TermReference struct {
	ID        Identifier
	Attribute *Identifier
	Arguments *CallArguments // nil if no call parens present
	Span      *Span
}

func (t *TermReference) NodeSpan() *Span { return t.Span }
func (*TermReference) isExpression()     {}

// FunctionReference is `IDENTIFIER(args)`.
type FunctionReference struct {
	ID        Identifier
	Arguments *CallArguments
	Span      *Span
}

func (f *FunctionReference) NodeSpan() *Span { return f.Span }
func (*FunctionReference) isExpression()     {}

// SelectExpression is `$selector -> [key] pattern ... *[default] pattern`.
type SelectExpression struct {
	Selector     Expression
	Variants     []*Variant
	DefaultIndex int // index into Variants of the variant with IsDefault
	Span         *Span
}

func (s *SelectExpression) NodeSpan() *Span { return s.Span }
func (*SelectExpression) isExpression()     {}

// VariantKey is implemented by Identifier-keyed and NumberLiteral-keyed
// variants.
type VariantKey interface {
	Node
	isVariantKey()
}

// IdentifierKey is an identifier-shaped variant key, e.g. `[one]`.
type IdentifierKey struct {
	Name Identifier
	Span *Span
}

func (k *IdentifierKey) NodeSpan() *Span { return k.Span }
func (*IdentifierKey) isVariantKey()     {}

// Variant is one `[key] pattern` arm of a SelectExpression.
type Variant struct {
	Key       VariantKey
	Value     *Pattern
	IsDefault bool
	Span      *Span
}

func (v *Variant) NodeSpan() *Span { return v.Span }

// CallArguments holds the positional and named arguments of a term or
// function call.
type CallArguments struct {
	Positional []Expression
	Named      []*NamedArgument
	Span       *Span
}

func (c *CallArguments) NodeSpan() *Span { return c.Span }

// NamedArgument is `name: value` inside a call's argument list. The parser
// accepts a StringLiteral, NumberLiteral or VariableReference as Value.
type NamedArgument struct {
	Name  Identifier
	Value Expression
	Span  *Span
}

func (n *NamedArgument) NodeSpan() *Span { return n.Span }

// CommentType distinguishes the three FTL comment levels.
type CommentType int

const (
	// CommentSingle is a `#` comment, attachable to a following entry.
	CommentSingle CommentType = iota
	// CommentGroup is a `##` comment, always standalone.
	CommentGroup
	// CommentResource is a `###` comment, always standalone.
	CommentResource
)

func (t CommentType) String() string {
	switch t {
	case CommentSingle:
		return "Single"
	case CommentGroup:
		return "Group"
	case CommentResource:
		return "Resource"
	default:
		return "Unknown"
	}
}

// Comment is a `#`/`##`/`###` comment entry, or the comment attached to a
// Message/Term.
type Comment struct {
	Type    CommentType
	Content string
	Span    *Span
}

func (c *Comment) NodeSpan() *Span { return c.Span }
func (*Comment) isEntry()          {}

// Annotation is a single diagnostic attached to a Junk node. Code is a
// stable diagnostic identifier (see package diagnostics); Message is the
// rendered human text at parse time.
type Annotation struct {
	Code    string
	Message string
	Args    []string
	Span    *Span
}

func (a *Annotation) NodeSpan() *Span { return a.Span }

// Junk is a region of source the parser could not interpret as a valid
// entry. It preserves the exact source text so the serializer can emit it
// verbatim.
type Junk struct {
	Content     string
	Annotations []*Annotation
	Span        *Span
}

func (j *Junk) NodeSpan() *Span { return j.Span }
func (*Junk) isEntry()          {}
