package anm

import (
	"io"
	"sort"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

type ClassIndex struct {
	Index      string            `json:"index" yaml:"index"`
	FileName   string            `json:"file_name" yaml:"file_name"`
	Animations []AnimationHeader `json:"animations" yaml:"animations"`
}

// Index lists the classes and animation headers of a file without its frames.
type Index struct {
	Header  int32                  `json:"header" yaml:"header"`
	Classes map[string]*ClassIndex `json:"classes" yaml:"classes"`
}

func (idx *Index) ClassKeys() []string {
	keys := make([]string, 0, len(idx.Classes))
	for key := range idx.Classes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ReadIndex scans r using the frame block size stored in every animation
// header to skip frames instead of parsing them. The stored size is trusted;
// a file written by another encoder with a wrong size produces an error or a
// wrong index.
func ReadIndex(r io.Reader) (*Index, error) {
	header, err := newStreamReader(r).readLI32()
	if err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	defer zr.Close()

	idx := &Index{Header: header, Classes: make(map[string]*ClassIndex)}
	err = readEntries(newStreamReader(zr), func(sr *streamReader, key string) error {
		ci, err := readClassIndex(sr)
		if err != nil {
			return err
		}
		idx.Classes[key] = ci
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func readClassIndex(sr *streamReader) (*ClassIndex, error) {
	ci := &ClassIndex{}
	var err error

	if ci.Index, err = sr.readString("class index"); err != nil {
		return nil, err
	}
	if ci.FileName, err = sr.readString("class file name"); err != nil {
		return nil, err
	}
	animationCount, err := sr.readLU32()
	if err != nil {
		return nil, err
	}

	ci.Animations = make([]AnimationHeader, 0, prealloc(animationCount))
	for i := uint32(0); i < animationCount; i++ {
		h, _, err := readAnimationHeader(sr, false)
		if err != nil {
			return nil, errors.Wrapf(err, "class %q animation %d", ci.Index, i)
		}
		if err := sr.skip(int64(h.FramesByteSize)); err != nil {
			return nil, errors.Wrapf(err, "class %q animation %q frames", ci.Index, h.Name)
		}
		ci.Animations = append(ci.Animations, h)
	}
	return ci, nil
}

// IndexMismatch is an indexed animation whose stored frame block size is not
// the size its decoded frames encode to. Computed is -1 when the animation is
// missing from the decoded file.
type IndexMismatch struct {
	Class     string
	Animation string
	Stored    uint32
	Computed  int
}

// CheckIndex compares idx with the decoded file f it was read from. Repeated
// animation names are checked at their last occurrence, the one Decode keeps.
func (f *File) CheckIndex(idx *Index) []IndexMismatch {
	var result []IndexMismatch
	for _, key := range idx.ClassKeys() {
		ci := idx.Classes[key]
		last := make(map[string]int, len(ci.Animations))
		for i, h := range ci.Animations {
			last[h.Name] = i
		}

		var animations AnimationCollection
		if c := f.Class(key); c != nil {
			animations = c.Animations
		}
		for i, h := range ci.Animations {
			if last[h.Name] != i {
				continue
			}
			computed := -1
			if a := animations.Get(h.Name); a != nil {
				computed = a.FramesByteSize()
			}
			if computed != int(h.FramesByteSize) {
				result = append(result, IndexMismatch{
					Class:     key,
					Animation: h.Name,
					Stored:    h.FramesByteSize,
					Computed:  computed,
				})
			}
		}
	}
	return result
}
