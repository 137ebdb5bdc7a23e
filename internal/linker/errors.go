// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/source-linker/pkg/types"
)

// ErrInvalidKeyPoint is matched by every key-point validation failure.
var ErrInvalidKeyPoint = errors.New("invalid key point")

// InvalidKeyPointError describes why a key point was rejected.
type InvalidKeyPointError struct {
	// Index is the position of the key point in the input slice.
	Index int

	// ID is the key point's ID, possibly empty.
	ID string

	// Reason is a short human-readable description.
	Reason string
}

func (e *InvalidKeyPointError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid key point at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid key point %q at index %d: %s", e.ID, e.Index, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidKeyPoint.
func (e *InvalidKeyPointError) Unwrap() error {
	return ErrInvalidKeyPoint
}

// CheckKeyPoints returns every problem found in keyPoints, in input order.
// A key point may contribute several problems.
func CheckKeyPoints(keyPoints []types.KeyPoint) []*InvalidKeyPointError {
	var problems []*InvalidKeyPointError
	seen := make(map[string]int, len(keyPoints))

	for i, kp := range keyPoints {
		fail := func(format string, args ...any) {
			problems = append(problems, &InvalidKeyPointError{
				Index:  i,
				ID:     kp.ID,
				Reason: fmt.Sprintf(format, args...),
			})
		}

		if strings.TrimSpace(kp.ID) == "" {
			fail("missing id")
		} else if first, dup := seen[kp.ID]; dup {
			fail("duplicate id, first used at index %d", first)
		} else {
			seen[kp.ID] = i
		}
		if strings.TrimSpace(kp.Text) == "" {
			fail("empty text")
		}
		if math.IsNaN(kp.Confidence) || kp.Confidence < 0 || kp.Confidence > 1 {
			fail("confidence %v out of range [0,1]", kp.Confidence)
		}
		if !kp.Category.Valid() {
			fail("unknown category %q", kp.Category)
		}
	}

	return problems
}

// ValidateKeyPoints returns the first problem in keyPoints, or nil.
func ValidateKeyPoints(keyPoints []types.KeyPoint) error {
	if problems := CheckKeyPoints(keyPoints); len(problems) > 0 {
		return problems[0]
	}
	return nil
}
