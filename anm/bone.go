package anm

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultBoneFrame is the sprite sheet frame a bone shows unless overridden.
const DefaultBoneFrame = 1

// Bone is a positioned and transformed sprite reference inside a frame.
// The 2x2 transform is kept as scale/skew pairs:
//
//	| ScaleX       RotateSkew1 |
//	| RotateSkew0  ScaleY      |
type Bone struct {
	Id          int16   `json:"id" yaml:"id"`
	ScaleX      float32 `json:"scale_x" yaml:"scale_x"`
	RotateSkew0 float32 `json:"rotate_skew0" yaml:"rotate_skew0"`
	RotateSkew1 float32 `json:"rotate_skew1" yaml:"rotate_skew1"`
	ScaleY      float32 `json:"scale_y" yaml:"scale_y"`
	X           float32 `json:"x" yaml:"x"`
	Y           float32 `json:"y" yaml:"y"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
	Frame       int8    `json:"frame" yaml:"frame"`
}

// NewBone returns an opaque bone with identity transform at the origin.
func NewBone(id int16) Bone {
	return Bone{
		Id:      id,
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
		Frame:   DefaultBoneFrame,
	}
}

func (b *Bone) TransformEquals(other *Bone) bool {
	return b.ScaleX == other.ScaleX &&
		b.RotateSkew0 == other.RotateSkew0 &&
		b.RotateSkew1 == other.RotateSkew1 &&
		b.ScaleY == other.ScaleY
}

func (b *Bone) PositionEquals(other *Bone) bool {
	return b.X == other.X && b.Y == other.Y
}

// IsPartialCloneOf reports whether b can be stored as a reference to other.
// Frame is not compared: a partial clone may still override it.
func (b *Bone) IsPartialCloneOf(other *Bone) bool {
	return b.Id == other.Id &&
		b.TransformEquals(other) &&
		b.PositionEquals(other) &&
		b.Opacity == other.Opacity
}

// Matrix returns the affine 2D transform of the bone in mgl32 column-major order.
func (b *Bone) Matrix() mgl32.Mat3 {
	return mgl32.Mat3{
		b.ScaleX, b.RotateSkew0, 0,
		b.RotateSkew1, b.ScaleY, 0,
		b.X, b.Y, 1,
	}
}

func (b *Bone) TransformPoint(x, y float32) mgl32.Vec2 {
	return b.Matrix().Mul3x1(mgl32.Vec3{x, y, 1}).Vec2()
}

// QuantizeOpacity returns the opacity a bone will have after a write/read cycle.
func QuantizeOpacity(opacity float64) float64 {
	return float64(opacityByte(opacity)) / 255
}

func opacityByte(opacity float64) uint8 {
	return uint8(math.Round(opacity * 255))
}

func readBone(sr *streamReader, prev *Bone) (Bone, error) {
	var b Bone
	var err error

	if b.Id, err = sr.readLI16(); err != nil {
		return b, err
	}
	opaque, err := sr.readFlag()
	if err != nil {
		return b, err
	}

	copyTransform, err := sr.readFlag()
	if err != nil {
		return b, err
	}
	if copyTransform {
		if prev == nil {
			return b, ErrNoPrevBoneTransform
		}
		b.ScaleX, b.RotateSkew0, b.RotateSkew1, b.ScaleY = prev.ScaleX, prev.RotateSkew0, prev.RotateSkew1, prev.ScaleY
	} else if err := readBoneTransform(sr, &b); err != nil {
		return b, err
	}

	copyPosition, err := sr.readFlag()
	if err != nil {
		return b, err
	}
	if copyPosition {
		if prev == nil {
			return b, ErrNoPrevBonePosition
		}
		b.X, b.Y = prev.X, prev.Y
	} else {
		if b.X, err = sr.readLF(); err != nil {
			return b, err
		}
		if b.Y, err = sr.readLF(); err != nil {
			return b, err
		}
	}

	b.Frame = DefaultBoneFrame
	hasFrame, err := sr.readFlag()
	if err != nil {
		return b, err
	}
	if hasFrame {
		if b.Frame, err = sr.readI8(); err != nil {
			return b, err
		}
	}

	b.Opacity = 1
	if !opaque {
		v, err := sr.readByte()
		if err != nil {
			return b, err
		}
		b.Opacity = float64(v) / 255
	}

	return b, nil
}

func readBoneTransform(sr *streamReader, b *Bone) error {
	special, err := sr.readFlag()
	if err != nil {
		return err
	}
	shape := shapeGeneral
	if special {
		identity, err := sr.readFlag()
		if err != nil {
			return err
		}
		if identity {
			shape = shapeIdentity
		} else {
			shape = shapeSymmetric
		}
	}

	if shape == shapeIdentity {
		b.ScaleX, b.RotateSkew0, b.RotateSkew1, b.ScaleY = 1, 0, 0, 1
		return nil
	}

	if b.ScaleX, err = sr.readLF(); err != nil {
		return err
	}
	if b.RotateSkew0, err = sr.readLF(); err != nil {
		return err
	}
	if shape == shapeSymmetric {
		b.RotateSkew1 = b.RotateSkew0
		b.ScaleY = -b.ScaleX
		return nil
	}
	if b.RotateSkew1, err = sr.readLF(); err != nil {
		return err
	}
	b.ScaleY, err = sr.readLF()
	return err
}

func writeBone(sw *streamWriter, b *Bone, p bonePlan) error {
	if !p.opaque && !(b.Opacity >= 0 && b.Opacity <= 1) {
		return &OpacityRangeError{Opacity: b.Opacity}
	}

	if err := sw.writeLI16(b.Id); err != nil {
		return err
	}
	if err := sw.writeFlag(p.opaque); err != nil {
		return err
	}

	if err := sw.writeFlag(p.copyTransform); err != nil {
		return err
	}
	if !p.copyTransform {
		if err := writeBoneTransform(sw, b, p.shape); err != nil {
			return err
		}
	}

	if err := sw.writeFlag(p.copyPosition); err != nil {
		return err
	}
	if !p.copyPosition {
		if err := sw.writeLF(b.X); err != nil {
			return err
		}
		if err := sw.writeLF(b.Y); err != nil {
			return err
		}
	}

	if err := sw.writeFlag(p.hasFrame); err != nil {
		return err
	}
	if p.hasFrame {
		if err := sw.writeI8(b.Frame); err != nil {
			return err
		}
	}

	if !p.opaque {
		return sw.writeByte(opacityByte(b.Opacity))
	}
	return nil
}

func writeBoneTransform(sw *streamWriter, b *Bone, shape transformShape) error {
	if err := sw.writeFlag(shape != shapeGeneral); err != nil {
		return err
	}
	switch shape {
	case shapeIdentity:
		return sw.writeFlag(true)
	case shapeSymmetric:
		if err := sw.writeFlag(false); err != nil {
			return err
		}
		if err := sw.writeLF(b.ScaleX); err != nil {
			return err
		}
		return sw.writeLF(b.RotateSkew0)
	}
	for _, v := range [...]float32{b.ScaleX, b.RotateSkew0, b.RotateSkew1, b.ScaleY} {
		if err := sw.writeLF(v); err != nil {
			return err
		}
	}
	return nil
}
