// Package assert implements the comparison predicates used to validate every
// field read from an asset file.
//
// Each predicate takes the field name, the expectation, the actual value, and
// the absolute byte offset of the field, and returns an *errs.AssertError on
// mismatch. Calling code propagates these unchanged; there is no local
// recovery anywhere in the codecs.
package assert

import (
	"fmt"
	"slices"

	"github.com/mechres/zbd/errs"
)

// Ordered covers every on-disk scalar the codecs compare.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// Equal checks actual == expected.
func Equal[T comparable](name string, expected, actual T, offset uint32) error {
	if actual == expected {
		return nil
	}
	return errs.Newf(offset, name, "== %v, but was %v", expected, actual)
}

// Unequal checks actual != expected.
func Unequal[T comparable](name string, expected, actual T, offset uint32) error {
	if actual != expected {
		return nil
	}
	return errs.Newf(offset, name, "!= %v, but was", actual)
}

// Less checks actual < bound.
func Less[T Ordered](name string, bound, actual T, offset uint32) error {
	if actual < bound {
		return nil
	}
	return errs.Newf(offset, name, "< %v, but was %v", bound, actual)
}

// LessEq checks actual <= bound.
func LessEq[T Ordered](name string, bound, actual T, offset uint32) error {
	if actual <= bound {
		return nil
	}
	return errs.Newf(offset, name, "<= %v, but was %v", bound, actual)
}

// Greater checks actual > bound.
func Greater[T Ordered](name string, bound, actual T, offset uint32) error {
	if actual > bound {
		return nil
	}
	return errs.Newf(offset, name, "> %v, but was %v", bound, actual)
}

// GreaterEq checks actual >= bound.
func GreaterEq[T Ordered](name string, bound, actual T, offset uint32) error {
	if actual >= bound {
		return nil
	}
	return errs.Newf(offset, name, ">= %v, but was %v", bound, actual)
}

// Between checks min <= actual <= max.
func Between[T Ordered](name string, min, max, actual T, offset uint32) error {
	if min <= actual && actual <= max {
		return nil
	}
	return errs.Newf(offset, name, "in %v..=%v, but was %v", min, max, actual)
}

// In checks that actual is one of the allowed values.
func In[T comparable](name string, allowed []T, actual T, offset uint32) error {
	if slices.Contains(allowed, actual) {
		return nil
	}
	return errs.Newf(offset, name, "in %v, but was %v", allowed, actual)
}

// Bool checks that an integer field holds 0 or 1 and returns the decoded bool.
func Bool[T ~uint8 | ~uint16 | ~uint32](name string, actual T, offset uint32) (bool, error) {
	switch actual {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errs.Newf(offset, name, "to be a bool, but was %d", actual)
}

// AllZero checks that every byte of buf is zero, reporting the first
// offending byte on failure.
func AllZero(name string, buf []byte, offset uint32) error {
	for i, v := range buf {
		if v != 0 {
			return errs.Newf(offset, name, "to be zero, but byte %d was %02X", i, v)
		}
	}
	return nil
}

// Flags checks that value contains only bits from valid and returns it.
// Used by the typed bitflag sets; the message renders the raw mask.
func Flags[T ~uint8 | ~uint16 | ~uint32](name string, valid, value T, offset uint32) (T, error) {
	if value&^valid != 0 {
		return 0, errs.Newf(offset, name, "to be valid flags, but was 0x%08X", uint32(value))
	}
	return value, nil
}

// Enum maps an integer tag through lookup and fails on unknown tags.
// The lookup reports whether the tag names a known variant.
func Enum[T ~uint8 | ~uint16 | ~uint32](name string, known func(T) bool, value T, offset uint32) (T, error) {
	if !known(value) {
		return 0, errs.Newf(offset, name, "to be a valid variant, but was %d", value)
	}
	return value, nil
}

// Ascii checks that the callback's string conversion succeeded, wrapping the
// conversion failure with the field name and offset.
func Ascii(name string, offset uint32, convert func() (string, error)) (string, error) {
	s, err := convert()
	if err != nil {
		return "", errs.Newf(offset, name, "to be a valid string: %s", err)
	}
	return s, nil
}

// Format renders a value the way assertion messages do; exposed for codecs
// that build bespoke messages (e.g. tagged-union dispatch failures).
func Format(v any) string {
	return fmt.Sprintf("%v", v)
}
