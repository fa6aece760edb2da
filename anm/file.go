// Package anm reads and writes ANM animation files.
//
// An ANM file is an i32 header followed by a zlib stream of keyed classes.
// Each class holds animations, each animation holds frames, and each frame
// holds bones. Bones are delta encoded twice: against the bone with the
// same index in the previous frame, and against the preceding bone of the
// same frame.
package anm

import (
	"bytes"
	"io"
	"math"
	"sort"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// DefaultCompressionLevel is used by Encode.
const DefaultCompressionLevel = zlib.BestCompression

type File struct {
	Header  int32             `json:"header" yaml:"header"`
	Classes map[string]*Class `json:"classes" yaml:"classes"`
}

func NewFile(header int32) *File {
	return &File{Header: header, Classes: make(map[string]*Class)}
}

// ClassKeys returns the class keys in ascending order, the order they are written in.
func (f *File) ClassKeys() []string {
	keys := make([]string, 0, len(f.Classes))
	for key := range f.Classes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (f *File) Class(key string) *Class {
	return f.Classes[key]
}

// Decode reads a whole file from r. Every frame of every animation is parsed.
func Decode(r io.Reader) (*File, error) {
	header, err := newStreamReader(r).readLI32()
	if err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	defer zr.Close()

	f := &File{Header: header, Classes: make(map[string]*Class)}
	err = readEntries(newStreamReader(zr), func(sr *streamReader, key string) error {
		c, err := readClass(sr)
		if err != nil {
			return err
		}
		f.Classes[key] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func NewFromData(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// readEntries walks the continue-byte terminated sequence of keyed classes.
func readEntries(sr *streamReader, entry func(sr *streamReader, key string) error) error {
	for {
		more, err := sr.readFlag()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		key, err := sr.readString("class key")
		if err != nil {
			return err
		}
		if err := entry(sr, key); err != nil {
			return errors.Wrapf(err, "class key %q", key)
		}
	}
}

func (f *File) Encode(w io.Writer) error {
	return f.EncodeLevel(w, DefaultCompressionLevel)
}

// EncodeLevel writes f using the given zlib compression level.
func (f *File) EncodeLevel(w io.Writer, level int) error {
	// the zlib header is not written until the first write
	zw, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return errors.Wrapf(err, "compression level %d", level)
	}

	if err := newStreamWriter(w).writeLI32(f.Header); err != nil {
		return err
	}

	if err := f.writeClasses(newStreamWriter(zw)); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return &IOError{Err: err}
	}
	return nil
}

func (f *File) writeClasses(sw *streamWriter) error {
	for _, key := range f.ClassKeys() {
		if err := checkSize("class key length", len(key), math.MaxUint16); err != nil {
			return err
		}
		if err := sw.writeByte(1); err != nil {
			return err
		}
		if err := sw.writeString("class key length", key); err != nil {
			return err
		}
		if err := writeClass(sw, f.Classes[key]); err != nil {
			return errors.Wrapf(err, "class key %q", key)
		}
	}
	return sw.writeByte(0)
}

func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
