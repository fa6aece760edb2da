package anm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoPrevBoneTransform = errors.New("anm: bone copies transform from a previous bone, but there is no previous bone")
	ErrNoPrevBonePosition  = errors.New("anm: bone copies position from a previous bone, but there is no previous bone")
	ErrNoPrevFrame         = errors.New("anm: frame duplicates a bone from a previous frame, but there is no previous frame")
	ErrNoPrevFrameBone     = errors.New("anm: frame duplicates a bone from a previous frame, but there is no matching bone")
)

// IOError reports a failure of the underlying stream, including truncated input
// and malformed zlib data.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "anm: io: " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

type TextDecodingError struct {
	Field string
	Data  []byte
}

func (e *TextDecodingError) Error() string {
	return fmt.Sprintf("anm: %s is not valid utf-8: %q", e.Field, e.Data)
}

type NegativeBoneCountError struct {
	BoneCount int16
}

func (e *NegativeBoneCountError) Error() string {
	return fmt.Sprintf("anm: frame has a negative number of bones: (%d)", e.BoneCount)
}

// OverflowError is returned on write when a length or count does not fit
// its wire width.
type OverflowError struct {
	Field string
	Size  int
	Max   uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("anm: %s exceeds %d: (%d)", e.Field, e.Max, e.Size)
}

type OpacityRangeError struct {
	Opacity float64
}

func (e *OpacityRangeError) Error() string {
	return fmt.Sprintf("anm: bone opacity %v is outside [0, 1]", e.Opacity)
}

func checkSize(field string, size int, max uint64) error {
	if size < 0 || uint64(size) > max {
		return &OverflowError{Field: field, Size: size, Max: max}
	}
	return nil
}
