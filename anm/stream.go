package anm

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// streamReader reads little-endian fields in wire order, with no look-ahead.
type streamReader struct {
	r   io.Reader
	buf [8]byte
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

// read fails with io.ErrUnexpectedEOF even on a field boundary, since no
// field is optional at the end of a stream.
func (sr *streamReader) read(size int) ([]byte, error) {
	if _, err := io.ReadFull(sr.r, sr.buf[:size]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &IOError{Err: err}
	}
	return sr.buf[:size], nil
}

func (sr *streamReader) readByte() (byte, error) {
	b, err := sr.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (sr *streamReader) readFlag() (bool, error) {
	b, err := sr.readByte()
	return b != 0, err
}

func (sr *streamReader) readI8() (int8, error) {
	b, err := sr.readByte()
	return int8(b), err
}

func (sr *streamReader) readLU16() (uint16, error) {
	b, err := sr.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (sr *streamReader) readLI16() (int16, error) {
	v, err := sr.readLU16()
	return int16(v), err
}

func (sr *streamReader) readLU32() (uint32, error) {
	b, err := sr.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (sr *streamReader) readLI32() (int32, error) {
	v, err := sr.readLU32()
	return int32(v), err
}

func (sr *streamReader) readLF() (float32, error) {
	v, err := sr.readLU32()
	return math.Float32frombits(v), err
}

func (sr *streamReader) readLD() (float64, error) {
	b, err := sr.read(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// readString reads a u16 byte length followed by that many utf-8 bytes.
func (sr *streamReader) readString(field string) (string, error) {
	length, err := sr.readLU16()
	if err != nil {
		return "", err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(sr.r, data); err != nil {
		return "", &IOError{Err: err}
	}
	if !utf8.Valid(data) {
		return "", &TextDecodingError{Field: field, Data: data}
	}
	return string(data), nil
}

func (sr *streamReader) skip(size int64) error {
	if n, err := io.CopyN(io.Discard, sr.r, size); err != nil {
		if err == io.EOF && n < size {
			err = io.ErrUnexpectedEOF
		}
		return &IOError{Err: err}
	}
	return nil
}

type streamWriter struct {
	w       io.Writer
	buf     [8]byte
	written int64
}

func newStreamWriter(w io.Writer) *streamWriter {
	return &streamWriter{w: w}
}

func (sw *streamWriter) write(b []byte) error {
	n, err := sw.w.Write(b)
	sw.written += int64(n)
	if err != nil {
		return &IOError{Err: err}
	}
	return nil
}

func (sw *streamWriter) writeByte(b byte) error {
	sw.buf[0] = b
	return sw.write(sw.buf[:1])
}

func (sw *streamWriter) writeFlag(v bool) error {
	if v {
		return sw.writeByte(1)
	}
	return sw.writeByte(0)
}

func (sw *streamWriter) writeI8(v int8) error {
	return sw.writeByte(byte(v))
}

func (sw *streamWriter) writeLU16(v uint16) error {
	binary.LittleEndian.PutUint16(sw.buf[:2], v)
	return sw.write(sw.buf[:2])
}

func (sw *streamWriter) writeLI16(v int16) error {
	return sw.writeLU16(uint16(v))
}

func (sw *streamWriter) writeLU32(v uint32) error {
	binary.LittleEndian.PutUint32(sw.buf[:4], v)
	return sw.write(sw.buf[:4])
}

func (sw *streamWriter) writeLI32(v int32) error {
	return sw.writeLU32(uint32(v))
}

func (sw *streamWriter) writeLF(v float32) error {
	return sw.writeLU32(math.Float32bits(v))
}

func (sw *streamWriter) writeLD(v float64) error {
	binary.LittleEndian.PutUint64(sw.buf[:8], math.Float64bits(v))
	return sw.write(sw.buf[:8])
}

// writeString fails with an OverflowError naming field before anything is
// written when s does not fit the u16 length prefix.
func (sw *streamWriter) writeString(field string, s string) error {
	if err := checkSize(field, len(s), math.MaxUint16); err != nil {
		return err
	}
	if err := sw.writeLU16(uint16(len(s))); err != nil {
		return err
	}
	return sw.write([]byte(s))
}
