package model

import (
	"fmt"
	"strconv"
)

// ValueKind identifies which member of the TagValue union is set.
//
// Callers constructing a value for a modify operation must pick an
// explicit kind; the engine never inspects runtime types to guess one.
type ValueKind int

const (
	// KindText is a human-readable string, encoded as EXIF ASCII.
	KindText ValueKind = iota

	// KindInteger is a whole number, encoded as an EXIF LONG.
	KindInteger

	// KindRational is a numerator/denominator pair, encoded as an
	// EXIF RATIONAL.
	KindRational

	// KindRaw is an opaque byte sequence, encoded as EXIF UNDEFINED
	// and passed through unmodified.
	KindRaw
)

// String returns the kind name for display.
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindRational:
		return "rational"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// TagValue is the value of a single metadata tag.
//
// TagValue is a tagged union over the closed set of value kinds the
// engine understands. Exactly one member is meaningful, selected by
// Kind. Use the constructors (Text, Integer, Rational, Raw) rather
// than building the struct directly.
//
// Example:
//
//	v := model.Text("Alice")
//	fmt.Println(v.Kind, v.String()) // text Alice
type TagValue struct {
	// Kind selects the active member.
	Kind ValueKind

	// Text holds the value when Kind == KindText.
	Text string

	// Integer holds the value when Kind == KindInteger.
	Integer int64

	// Num and Den hold the value when Kind == KindRational.
	Num int64
	Den int64

	// Raw holds the value when Kind == KindRaw.
	Raw []byte
}

// Text constructs a text value.
func Text(s string) TagValue {
	return TagValue{Kind: KindText, Text: s}
}

// Integer constructs an integer value.
func Integer(n int64) TagValue {
	return TagValue{Kind: KindInteger, Integer: n}
}

// Rational constructs a rational value from numerator and denominator.
func Rational(num, den int64) TagValue {
	return TagValue{Kind: KindRational, Num: num, Den: den}
}

// Raw constructs an opaque byte-sequence value.
func Raw(b []byte) TagValue {
	return TagValue{Kind: KindRaw, Raw: b}
}

// String renders the value for report output.
//
// Rationals render as "num/den"; raw bytes render as a length-prefixed
// placeholder so binary blobs (maker notes and the like) don't corrupt
// terminal output.
func (v TagValue) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case KindRational:
		return fmt.Sprintf("%d/%d", v.Num, v.Den)
	case KindRaw:
		return fmt.Sprintf("(%d bytes)", len(v.Raw))
	}
	return ""
}

// Equal reports whether two values have the same kind and content.
func (v TagValue) Equal(o TagValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindInteger:
		return v.Integer == o.Integer
	case KindRational:
		return v.Num == o.Num && v.Den == o.Den
	case KindRaw:
		if len(v.Raw) != len(o.Raw) {
			return false
		}
		for i := range v.Raw {
			if v.Raw[i] != o.Raw[i] {
				return false
			}
		}
		return true
	}
	return false
}

// MetadataMap maps tag names to their values for one file.
//
// Keys are resolved tag names where the dictionary knows the tag, or
// "0xNNNN" hex identifiers for tags it doesn't. Insertion order is not
// meaningful; report rendering sorts keys.
type MetadataMap map[string]TagValue
