// Package glyph derives tight per-character bounding rectangles from font
// metrics without rasterizing. Each symbol is mapped to a shape class; each
// class carries a pair of linear formulas for the top and bottom offsets from
// the baseline; a family-keyed correction table adjusts fonts whose reported
// metrics do not match their drawn glyphs.
package glyph

import "unicode"

// Class 是字形的形状类别。
type Class int

const (
	ClassDefault Class = iota
	ClassXHeight
	ClassAscender
	ClassDescender
	ClassLowerJ
	ClassCap
	ClassUpperJ
	ClassUpperQ
	ClassDigit
	ClassSlash
	ClassBracket
	ClassUnderscore
	ClassDollar
	ClassMath
	ClassDash
	ClassLowPunct
	ClassMidPunct
	ClassHighPunct
	ClassComma
	ClassSemicolon
	ClassAsterisk
)

var classNames = [...]string{
	ClassDefault:    "default",
	ClassXHeight:    "x-height",
	ClassAscender:   "ascender",
	ClassDescender:  "descender",
	ClassLowerJ:     "lower-j",
	ClassCap:        "cap",
	ClassUpperJ:     "upper-j",
	ClassUpperQ:     "upper-q",
	ClassDigit:      "digit",
	ClassSlash:      "slash",
	ClassBracket:    "bracket",
	ClassUnderscore: "underscore",
	ClassDollar:     "dollar",
	ClassMath:       "math",
	ClassDash:       "dash",
	ClassLowPunct:   "low-punct",
	ClassMidPunct:   "mid-punct",
	ClassHighPunct:  "high-punct",
	ClassComma:      "comma",
	ClassSemicolon:  "semicolon",
	ClassAsterisk:   "asterisk",
}

func (c Class) String() string {
	if int(c) >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

var symbolClasses = map[rune]Class{
	'j': ClassLowerJ,
	'J': ClassUpperJ,
	'Q': ClassUpperQ,
	'/': ClassSlash, '\\': ClassSlash,
	'(': ClassBracket, ')': ClassBracket, '[': ClassBracket, ']': ClassBracket,
	'{': ClassBracket, '}': ClassBracket, '|': ClassBracket,
	'_': ClassUnderscore,
	'$': ClassDollar,
	'+': ClassMath, '=': ClassMath, '<': ClassMath, '>': ClassMath, '~': ClassMath,
	'±': ClassMath, '×': ClassMath, '÷': ClassMath,
	'-': ClassDash, '–': ClassDash, '—': ClassDash,
	'.': ClassLowPunct, ',': ClassComma,
	':': ClassMidPunct, ';': ClassSemicolon,
	'\'': ClassHighPunct, '"': ClassHighPunct, '`': ClassHighPunct, '^': ClassHighPunct,
	'*': ClassAsterisk, '°': ClassHighPunct, '‘': ClassHighPunct, '’': ClassHighPunct,
	'“': ClassHighPunct, '”': ClassHighPunct,
}

// Classify maps a symbol to its shape class. Unlisted symbols are ClassDefault.
func Classify(r rune) Class {
	if c, ok := symbolClasses[r]; ok {
		return c
	}
	switch {
	case r >= 'a' && r <= 'z':
		switch r {
		case 'b', 'd', 'f', 'h', 'i', 'k', 'l', 't':
			return ClassAscender
		case 'g', 'p', 'q', 'y':
			return ClassDescender
		default:
			return ClassXHeight
		}
	case r >= 'A' && r <= 'Z':
		return ClassCap
	case r >= '0' && r <= '9':
		return ClassDigit
	case unicode.IsLower(r):
		return ClassXHeight
	case unicode.IsUpper(r):
		return ClassCap
	}
	return ClassDefault
}
