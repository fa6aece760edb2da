package anm

import (
	"math"

	"github.com/pkg/errors"
)

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Frame is one pose of an animation. Bones must keep the same order in every
// frame of an animation, bone i is delta encoded against bone i of the
// previous frame.
type Frame struct {
	Id    int16  `json:"id" yaml:"id"`
	Bones []Bone `json:"bones" yaml:"bones"`
	// affects gameplay, grab moves attach to it
	FireSocket *Point `json:"fire_socket,omitempty" yaml:"fire_socket,omitempty"`
	// unused by the game
	EbPlatformPos *Point `json:"eb_platform_pos,omitempty" yaml:"eb_platform_pos,omitempty"`
}

func readPoint(sr *streamReader) (*Point, error) {
	present, err := sr.readFlag()
	if err != nil || !present {
		return nil, err
	}
	var p Point
	if p.X, err = sr.readLD(); err != nil {
		return nil, err
	}
	if p.Y, err = sr.readLD(); err != nil {
		return nil, err
	}
	return &p, nil
}

func writePoint(sw *streamWriter, p *Point) error {
	if err := sw.writeFlag(p != nil); err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if err := sw.writeLD(p.X); err != nil {
		return err
	}
	return sw.writeLD(p.Y)
}

func pointSize(p *Point) int {
	if p == nil {
		return 1
	}
	return 1 + 2*8
}

func readFrame(sr *streamReader, prev *Frame) (Frame, error) {
	var f Frame
	var err error

	if f.Id, err = sr.readLI16(); err != nil {
		return f, err
	}
	if f.FireSocket, err = readPoint(sr); err != nil {
		return f, err
	}
	if f.EbPlatformPos, err = readPoint(sr); err != nil {
		return f, err
	}

	boneCount, err := sr.readLI16()
	if err != nil {
		return f, err
	}
	if boneCount < 0 {
		return f, &NegativeBoneCountError{BoneCount: boneCount}
	}

	f.Bones = make([]Bone, 0, boneCount)
	for i := 0; i < int(boneCount); i++ {
		b, err := readFrameBone(sr, prev, f.Bones)
		if err != nil {
			return f, errors.Wrapf(err, "bone %d", i)
		}
		f.Bones = append(f.Bones, b)
	}

	return f, nil
}

// readFrameBone reads the bone at index len(bones) of the current frame.
func readFrameBone(sr *streamReader, prev *Frame, bones []Bone) (Bone, error) {
	i := len(bones)
	clonePrev, err := sr.readFlag()
	if err != nil {
		return Bone{}, err
	}
	if !clonePrev {
		var intraRef *Bone
		if i > 0 {
			intraRef = &bones[i-1]
		}
		return readBone(sr, intraRef)
	}

	if prev == nil {
		return Bone{}, ErrNoPrevFrame
	}
	if i >= len(prev.Bones) {
		return Bone{}, ErrNoPrevFrameBone
	}
	b := prev.Bones[i]
	sameFrame, err := sr.readFlag()
	if err != nil {
		return b, err
	}
	if !sameFrame {
		if b.Frame, err = sr.readI8(); err != nil {
			return b, err
		}
	}
	return b, nil
}

func writeFrame(sw *streamWriter, f, prev *Frame) error {
	if err := checkSize("bone count", len(f.Bones), math.MaxInt16); err != nil {
		return err
	}

	if err := sw.writeLI16(f.Id); err != nil {
		return err
	}
	if err := writePoint(sw, f.FireSocket); err != nil {
		return err
	}
	if err := writePoint(sw, f.EbPlatformPos); err != nil {
		return err
	}
	if err := sw.writeLI16(int16(len(f.Bones))); err != nil {
		return err
	}

	for i, p := range planFrame(f, prev) {
		if err := writeFrameBone(sw, &f.Bones[i], p); err != nil {
			return errors.Wrapf(err, "bone %d", i)
		}
	}
	return nil
}

func writeFrameBone(sw *streamWriter, b *Bone, p frameBonePlan) error {
	if err := sw.writeFlag(p.clone != cloneNone); err != nil {
		return err
	}
	switch p.clone {
	case cloneFull:
		return sw.writeFlag(true)
	case clonePartial:
		if err := sw.writeFlag(false); err != nil {
			return err
		}
		return sw.writeI8(b.Frame)
	}
	return writeBone(sw, b, p.bone)
}

// ByteSize returns the encoded size of f when prev (may be nil) is the frame
// before it.
func (f *Frame) ByteSize(prev *Frame) int {
	n := 2 // id
	n += pointSize(f.FireSocket)
	n += pointSize(f.EbPlatformPos)
	n += 2 // bone count
	for _, p := range planFrame(f, prev) {
		n += p.size()
	}
	return n
}
