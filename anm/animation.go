package anm

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// preallocation limit for counts read from the stream
const maxPrealloc = 4096

// Animation is a named sequence of frames. The frame markers are opaque
// indices and are not checked against the frame count.
type Animation struct {
	Name          string   `json:"name" yaml:"name"`
	LoopStart     uint32   `json:"loop_start" yaml:"loop_start"`
	RecoveryStart uint32   `json:"recovery_start" yaml:"recovery_start"`
	FreeStart     uint32   `json:"free_start" yaml:"free_start"`
	PreviewFrame  uint32   `json:"preview_frame" yaml:"preview_frame"`
	BaseStart     uint32   `json:"base_start" yaml:"base_start"`
	Data          []uint32 `json:"data" yaml:"data"`
	Frames        []Frame  `json:"frames" yaml:"frames"`
}

// AnimationHeader is everything stored in front of the frame block.
type AnimationHeader struct {
	Name           string `json:"name" yaml:"name"`
	FrameCount     uint32 `json:"frame_count" yaml:"frame_count"`
	LoopStart      uint32 `json:"loop_start" yaml:"loop_start"`
	RecoveryStart  uint32 `json:"recovery_start" yaml:"recovery_start"`
	FreeStart      uint32 `json:"free_start" yaml:"free_start"`
	PreviewFrame   uint32 `json:"preview_frame" yaml:"preview_frame"`
	BaseStart      uint32 `json:"base_start" yaml:"base_start"`
	DataSize       uint32 `json:"data_size" yaml:"data_size"`
	FramesByteSize uint32 `json:"frames_byte_size" yaml:"frames_byte_size"`
}

func prealloc(count uint32) int {
	if count > maxPrealloc {
		return maxPrealloc
	}
	return int(count)
}

// readAnimationHeader reads up to the frame block. The data array is
// returned when keepData is set and skipped otherwise.
func readAnimationHeader(sr *streamReader, keepData bool) (AnimationHeader, []uint32, error) {
	var h AnimationHeader
	var err error

	if h.Name, err = sr.readString("animation name"); err != nil {
		return h, nil, err
	}
	for _, v := range [...]*uint32{
		&h.FrameCount,
		&h.LoopStart, &h.RecoveryStart, &h.FreeStart, &h.PreviewFrame, &h.BaseStart,
		&h.DataSize,
	} {
		if *v, err = sr.readLU32(); err != nil {
			return h, nil, err
		}
	}

	var data []uint32
	if keepData {
		data = make([]uint32, 0, prealloc(h.DataSize))
		for i := uint32(0); i < h.DataSize; i++ {
			v, err := sr.readLU32()
			if err != nil {
				return h, nil, err
			}
			data = append(data, v)
		}
	} else if err := sr.skip(int64(h.DataSize) * 4); err != nil {
		return h, nil, err
	}

	// the engine uses it to skip frames until it needs them
	if h.FramesByteSize, err = sr.readLU32(); err != nil {
		return h, nil, err
	}
	return h, data, nil
}

func readAnimation(sr *streamReader) (*Animation, error) {
	h, data, err := readAnimationHeader(sr, true)
	if err != nil {
		return nil, err
	}

	a := &Animation{
		Name:          h.Name,
		LoopStart:     h.LoopStart,
		RecoveryStart: h.RecoveryStart,
		FreeStart:     h.FreeStart,
		PreviewFrame:  h.PreviewFrame,
		BaseStart:     h.BaseStart,
		Data:          data,
		Frames:        make([]Frame, 0, prealloc(h.FrameCount)),
	}
	for i := uint32(0); i < h.FrameCount; i++ {
		var prev *Frame
		if i > 0 {
			prev = &a.Frames[i-1]
		}
		f, err := readFrame(sr, prev)
		if err != nil {
			return nil, errors.Wrapf(err, "animation %q frame %d", a.Name, i)
		}
		a.Frames = append(a.Frames, f)
	}
	return a, nil
}

// FramesByteSize returns the encoded size of the whole frame block.
func (a *Animation) FramesByteSize() int {
	n := 0
	for i := range a.Frames {
		var prev *Frame
		if i > 0 {
			prev = &a.Frames[i-1]
		}
		n += a.Frames[i].ByteSize(prev)
	}
	return n
}

var unitSquare = [4]mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// Bounds returns the box covering the unit square of every bone in every
// frame, mapped through the bone transform. ok is false without bones.
func (a *Animation) Bounds() (lo, hi mgl32.Vec2, ok bool) {
	for i := range a.Frames {
		for j := range a.Frames[i].Bones {
			b := &a.Frames[i].Bones[j]
			for _, corner := range unitSquare {
				p := b.TransformPoint(corner.X(), corner.Y())
				if !ok {
					lo, hi, ok = p, p, true
					continue
				}
				lo = mgl32.Vec2{min(lo.X(), p.X()), min(lo.Y(), p.Y())}
				hi = mgl32.Vec2{max(hi.X(), p.X()), max(hi.Y(), p.Y())}
			}
		}
	}
	return lo, hi, ok
}

// Header returns the header that is written in front of the frame block.
func (a *Animation) Header() (AnimationHeader, error) {
	if err := checkSize("animation name length", len(a.Name), math.MaxUint16); err != nil {
		return AnimationHeader{}, err
	}
	if err := checkSize("frame count", len(a.Frames), math.MaxUint32); err != nil {
		return AnimationHeader{}, err
	}
	if err := checkSize("animation data array length", len(a.Data), math.MaxUint32); err != nil {
		return AnimationHeader{}, err
	}
	byteCount := a.FramesByteSize()
	if err := checkSize("animation byte count", byteCount, math.MaxUint32); err != nil {
		return AnimationHeader{}, err
	}
	return AnimationHeader{
		Name:           a.Name,
		FrameCount:     uint32(len(a.Frames)),
		LoopStart:      a.LoopStart,
		RecoveryStart:  a.RecoveryStart,
		FreeStart:      a.FreeStart,
		PreviewFrame:   a.PreviewFrame,
		BaseStart:      a.BaseStart,
		DataSize:       uint32(len(a.Data)),
		FramesByteSize: uint32(byteCount),
	}, nil
}

func writeAnimation(sw *streamWriter, a *Animation) error {
	h, err := a.Header()
	if err != nil {
		return err
	}

	if err := sw.writeString("animation name length", a.Name); err != nil {
		return err
	}
	for _, v := range [...]uint32{
		h.FrameCount,
		h.LoopStart, h.RecoveryStart, h.FreeStart, h.PreviewFrame, h.BaseStart,
		h.DataSize,
	} {
		if err := sw.writeLU32(v); err != nil {
			return err
		}
	}
	for _, v := range a.Data {
		if err := sw.writeLU32(v); err != nil {
			return err
		}
	}
	if err := sw.writeLU32(h.FramesByteSize); err != nil {
		return err
	}

	for i := range a.Frames {
		var prev *Frame
		if i > 0 {
			prev = &a.Frames[i-1]
		}
		if err := writeFrame(sw, &a.Frames[i], prev); err != nil {
			return errors.Wrapf(err, "animation %q frame %d", a.Name, i)
		}
	}
	return nil
}
