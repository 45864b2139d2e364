// Package namepolicy validates and normalizes cell names, shared by the
// formula and workbook packages so a variable reference and a cell name
// are accepted by exactly the same rule.
package namepolicy

import "regexp"

// BasePattern is the grammar every cell name must match, independent of
// any caller-supplied validator. Formula variable references are not
// checked against it, so SetBasePattern does not change which variables
// a formula accepts.
var BasePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Normalizer maps a raw name to its canonical spelling. Two names denote
// the same cell iff their normalized forms are byte-equal. Callers should
// make this idempotent, though correctness only requires it be a function.
type Normalizer func(string) string

// Validator reports whether a normalized name is acceptable. It is
// consulted only after BasePattern already matches.
type Validator func(string) bool

// Identity is the default Normalizer: it returns its input unchanged.
func Identity(s string) string { return s }

// AlwaysValid is the default Validator: it accepts every name.
func AlwaysValid(string) bool { return true }

// SetBasePattern recompiles BasePattern from pattern, letting a deployment
// loosen or tighten the cell-name grammar without a code change. The
// previous BasePattern is left in place if pattern fails to compile.
func SetBasePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	BasePattern = re
	return nil
}

// Accepts reports whether name matches BasePattern and, once normalized,
// satisfies validator. A nil normalize is treated as Identity; a nil
// validate is treated as AlwaysValid.
func Accepts(name string, normalize Normalizer, validate Validator) bool {
	if normalize == nil {
		normalize = Identity
	}
	if validate == nil {
		validate = AlwaysValid
	}
	if !BasePattern.MatchString(name) {
		return false
	}
	return validate(normalize(name))
}
