package workbook

import "github.com/MasterFire41604/Spreadsheet-Program/formula"

// ContentsKind tags the Contents variant actually populated.
type ContentsKind int

const (
	ContentsNumber ContentsKind = iota
	ContentsText
	ContentsFormula
)

func (k ContentsKind) String() string {
	switch k {
	case ContentsNumber:
		return "Number"
	case ContentsText:
		return "Text"
	case ContentsFormula:
		return "Formula"
	default:
		return "Unknown"
	}
}

// Contents is the user's intent for a cell: exactly one of Number, Text,
// or Formula is meaningful, selected by Kind.
type Contents struct {
	Kind    ContentsKind
	Number  float64
	Text    string
	Formula *formula.Formula
}

func numberContents(f float64) Contents   { return Contents{Kind: ContentsNumber, Number: f} }
func textContents(s string) Contents      { return Contents{Kind: ContentsText, Text: s} }
func formulaContents(f *formula.Formula) Contents {
	return Contents{Kind: ContentsFormula, Formula: f}
}

// emptyContents is the sentinel for a cell with no content.
func emptyContents() Contents { return textContents("") }

// ValueKind tags the Value variant actually populated.
type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueText
	ValueError
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "Number"
	case ValueText:
		return "Text"
	case ValueError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Value is the cached, derived result of evaluating a cell's Contents
// against the current values of the cells it references.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	Reason string // populated only when Kind == ValueError
}

func numberValue(f float64) Value   { return Value{Kind: ValueNumber, Number: f} }
func textValue(s string) Value      { return Value{Kind: ValueText, Text: s} }
func errorValue(reason string) Value { return Value{Kind: ValueError, Reason: reason} }

// emptyValue mirrors emptyContents: an untouched cell reads back as "".
func emptyValue() Value { return textValue("") }

// record is the per-cell state the workbook keeps: the classified
// contents, the cached value, and the exact text the caller supplied
// (needed to reconstruct contents faithfully on reload).
type record struct {
	contents   Contents
	value      Value
	sourceText string
}
