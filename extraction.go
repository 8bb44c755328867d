package lotto

import (
	"sort"
	"time"
)

// DrawRequest describes one draw: how many numbers, from which pool, and
// which caller-fixed numbers must appear in the result.
type DrawRequest struct {
	Size         int   `json:"size"`
	MaxNumber    int   `json:"max_number"`
	FixedNumbers []int `json:"fixed_numbers,omitempty"`
}

// Validate checks the draw invariants: 0 < Size <= MaxNumber, fixed numbers
// inside [1, MaxNumber], distinct, and strictly fewer than Size so at least
// one slot is still drawn randomly.
func (r DrawRequest) Validate() error {
	if err := ValidateDrawParams(r.Size, r.MaxNumber); err != nil {
		return err
	}
	if len(r.FixedNumbers) == 0 {
		return nil
	}
	if len(r.FixedNumbers) >= r.Size {
		return ErrInvalidFixedNumbers.WithDetails(
			"fixed numbers must leave at least one free slot")
	}
	seen := make(map[int]struct{}, len(r.FixedNumbers))
	for _, n := range r.FixedNumbers {
		if n < 1 || n > r.MaxNumber {
			return ErrInvalidFixedNumbers.WithDetails(
				"fixed numbers must be within [1, maxNumber]")
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidFixedNumbers.WithDetails(
				"fixed numbers must be distinct")
		}
		seen[n] = struct{}{}
	}
	return nil
}

// freeSlots returns how many numbers a backend still has to draw
func (r DrawRequest) freeSlots() int {
	return r.Size - len(r.FixedNumbers)
}

// Extraction is the combined result of a primary draw and an optional extra
// draw. Built fresh on every session call, immutable after creation, and not
// retained anywhere: there is no draw history.
type Extraction struct {
	Numbers []int     `json:"numbers"`
	Extra   []int     `json:"extra,omitempty"` // nil when no extra draw was requested
	DrawnAt time.Time `json:"drawn_at"`
}

// NewExtraction creates an extraction stamped with the current time. A nil
// extra slice means the game has no extra draw.
func NewExtraction(numbers, extra []int) *Extraction {
	return &Extraction{
		Numbers: numbers,
		Extra:   extra,
		DrawnAt: time.Now(),
	}
}

// HasExtra reports whether the extraction includes an extra draw
func (e *Extraction) HasExtra() bool { return e.Extra != nil }

// SortedNumbers returns the primary numbers in ascending order,
// leaving the extraction itself untouched
func (e *Extraction) SortedNumbers() []int {
	return sortedCopy(e.Numbers)
}

// SortedExtra returns the extra numbers in ascending order, or nil when no
// extra draw was requested
func (e *Extraction) SortedExtra() []int {
	if e.Extra == nil {
		return nil
	}
	return sortedCopy(e.Extra)
}

func sortedCopy(nums []int) []int {
	out := make([]int, len(nums))
	copy(out, nums)
	sort.Ints(out)
	return out
}
