package anm

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	f := sampleFile()
	data, err := f.Marshal()
	require.NoError(t, err)

	assert.Equal(t, int32(-42), int32(binary.LittleEndian.Uint32(data)))

	decoded, err := NewFromData(data)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
	assert.Equal(t, []string{"Empty", "Idle"}, decoded.ClassKeys())
}

func TestFileRoundTripQuantizesOpacity(t *testing.T) {
	f := NewFile(1)
	c := &Class{Index: "0", FileName: "x.swf"}
	b := walkBone(1, 0, 0)
	b.Opacity = 0.3
	c.Insert(&Animation{Name: "Fade", Data: []uint32{}, Frames: []Frame{{Bones: []Bone{b}}}})
	f.Classes["Fade"] = c

	data, err := f.Marshal()
	require.NoError(t, err)
	decoded, err := NewFromData(data)
	require.NoError(t, err)

	got := decoded.Class("Fade").Animations.Get("Fade").Frames[0].Bones[0]
	assert.Equal(t, QuantizeOpacity(0.3), got.Opacity)
	assert.Equal(t, 77.0/255, got.Opacity)
}

func TestFileEncodeDeterministic(t *testing.T) {
	first, err := sampleFile().Marshal()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := sampleFile().Marshal()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFileEmpty(t *testing.T) {
	data := compressedFile(t, []byte{0x07, 0x00, 0x00, 0x00}, []byte{0x00})
	f, err := NewFromData(data)
	require.NoError(t, err)
	assert.Equal(t, int32(7), f.Header)
	assert.Empty(t, f.Classes)

	encoded, err := f.Marshal()
	require.NoError(t, err)
	again, err := NewFromData(encoded)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestFileMalformed(t *testing.T) {
	var tests = []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 2}},
		{"no body", []byte{1, 2, 3, 4}},
		{"not zlib", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"continue without class", compressedFile(t, []byte{0, 0, 0, 0}, []byte{0x01})},
		{"key without class", compressedFile(t, []byte{0, 0, 0, 0}, []byte{0x01, 0x01, 0x00, 'k'})},
		{"no terminator", compressedFile(t, []byte{0, 0, 0, 0}, nil)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewFromData(test.data)
			var ioErr *IOError
			assert.True(t, errors.As(err, &ioErr), "%v", err)
		})
	}
}

func TestFileEndsAtFieldBoundary(t *testing.T) {
	for name, body := range map[string][]byte{
		"after continue byte": {0x01},
		"after key":           {0x01, 0x01, 0x00, 'k'},
		"no terminator":       nil,
	} {
		_, err := NewFromData(compressedFile(t, []byte{0, 0, 0, 0}, body))
		var ioErr *IOError
		require.True(t, errors.As(err, &ioErr), name)
		assert.Equal(t, io.ErrUnexpectedEOF, ioErr.Err, name)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), name)
	}
}

func TestFileTruncatedCompressedStream(t *testing.T) {
	data, err := sampleFile().Marshal()
	require.NoError(t, err)

	_, err = NewFromData(data[:len(data)/2])
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr), "%v", err)
}

func TestFileInvalidKey(t *testing.T) {
	data := compressedFile(t, []byte{0, 0, 0, 0}, []byte{0x01, 0x01, 0x00, 0xff})
	_, err := NewFromData(data)
	var textErr *TextDecodingError
	require.True(t, errors.As(err, &textErr), "%v", err)
	assert.Equal(t, "class key", textErr.Field)
}

func TestFileBodyLayout(t *testing.T) {
	f := NewFile(0)
	f.Classes["K"] = &Class{Index: "I", FileName: "F"}

	data, err := f.Marshal()
	require.NoError(t, err)

	zr, err := zlib.NewReader(bytes.NewReader(data[4:]))
	require.NoError(t, err)
	var body bytes.Buffer
	_, err = body.ReadFrom(zr)
	require.NoError(t, err)

	assert.Equal(t, []byte{
		0x01,
		0x01, 0x00, 'K',
		0x01, 0x00, 'I',
		0x01, 0x00, 'F',
		0x00, 0x00, 0x00, 0x00,
		0x00,
	}, body.Bytes())
}

func TestFileKeyOverflow(t *testing.T) {
	f := NewFile(0)
	f.Classes[strings.Repeat("k", 1<<16)] = &Class{}

	err := f.Encode(&bytes.Buffer{})
	var overflow *OverflowError
	require.True(t, errors.As(err, &overflow), "%v", err)
	assert.Equal(t, "class key length", overflow.Field)
}

func TestFileNestedOverflowIsReported(t *testing.T) {
	f := sampleFile()
	f.Classes["Idle"].Insert(&Animation{Name: strings.Repeat("n", 70000)})

	err := f.Encode(&bytes.Buffer{})
	var overflow *OverflowError
	require.True(t, errors.As(err, &overflow), "%v", err)
	assert.Equal(t, "animation name length", overflow.Field)
	assert.Equal(t, 70000, overflow.Size)
}

func TestFileEncodeLevel(t *testing.T) {
	f := sampleFile()
	for _, level := range []int{zlib.NoCompression, zlib.BestSpeed, zlib.DefaultCompression, zlib.BestCompression} {
		var buf bytes.Buffer
		require.NoError(t, f.EncodeLevel(&buf, level))
		decoded, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, f, decoded, "level %d", level)
	}

	var buf bytes.Buffer
	assert.Error(t, f.EncodeLevel(&buf, 42))
	assert.Zero(t, buf.Len())
}

type failingWriter struct {
	left int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.left {
		n := w.left
		w.left = 0
		return n, errors.New("disk full")
	}
	w.left -= len(p)
	return len(p), nil
}

func TestFileEncodeWriterFailure(t *testing.T) {
	err := sampleFile().Encode(&failingWriter{left: 2})
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr), "%v", err)
}
