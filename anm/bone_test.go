package anm

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transformTests = []struct {
	name                                     string
	scaleX, rotateSkew0, rotateSkew1, scaleY float32
	shape                                    transformShape
	floats                                   int
}{
	{"identity", 1, 0, 0, 1, shapeIdentity, 0},
	{"mirrored", -1, 0, 0, 1, shapeSymmetric, 2},
	{"symmetric", 0.5, 0.25, 0.25, -0.5, shapeSymmetric, 2},
	{"symmetric zero", 0, 0, 0, 0, shapeSymmetric, 2},
	{"skew differs", 0.5, 0.25, 0.3, -0.5, shapeGeneral, 4},
	{"scale not negated", 0.5, 0.25, 0.25, 0.5, shapeGeneral, 4},
	{"identity scale with skew", 1, 0.5, 0.5, 1, shapeGeneral, 4},
	{"general", 1.5, -0.1, 0.2, 0.75, shapeGeneral, 4},
	{"negative identity", -1, 0, 0, -1, shapeGeneral, 4},
	{"nan", float32(math.NaN()), 0, 0, 1, shapeGeneral, 4},
}

func TestSelectTransformShape(t *testing.T) {
	for _, test := range transformTests {
		b := NewBone(1)
		b.ScaleX, b.RotateSkew0, b.RotateSkew1, b.ScaleY = test.scaleX, test.rotateSkew0, test.rotateSkew1, test.scaleY
		if shape := selectTransformShape(&b); shape != test.shape {
			t.Errorf("selectTransformShape(%v,%v,%v,%v)=%v; expected %v",
				test.scaleX, test.rotateSkew0, test.rotateSkew1, test.scaleY, shape, test.shape)
		}
	}
}

func TestBoneTransformRoundTrip(t *testing.T) {
	for _, test := range transformTests {
		if test.name == "nan" {
			continue
		}
		t.Run(test.name, func(t *testing.T) {
			b := walkBone(3, 10, -20)
			b.ScaleX, b.RotateSkew0, b.RotateSkew1, b.ScaleY = test.scaleX, test.rotateSkew0, test.rotateSkew1, test.scaleY

			data := encodeBone(t, b, nil)
			// id, opaque, copy transform, special, [identity], floats, copy position, x, y, has frame
			expected := 2 + 1 + 1 + 1 + 4*test.floats + 1 + 8 + 1
			if test.shape != shapeGeneral {
				expected++
			}
			assert.Len(t, data, expected)

			decoded, err := readBone(newStreamReader(bytes.NewReader(data)), nil)
			require.NoError(t, err)
			assert.Equal(t, b, decoded)
		})
	}
}

func TestBoneWireLayout(t *testing.T) {
	b := walkBone(1, 5, 5)
	data := encodeBone(t, b, nil)
	assert.Equal(t, []byte{
		0x01, 0x00, // id
		0x01,       // opaque
		0x00,       // copy transform
		0x01, 0x01, // special, identity
		0x00,                   // copy position
		0x00, 0x00, 0xa0, 0x40, // x
		0x00, 0x00, 0xa0, 0x40, // y
		0x00, // has frame
	}, data)

	b.Frame = -3
	b.Opacity = QuantizeOpacity(0.5)
	data = encodeBone(t, b, &b)
	assert.Equal(t, []byte{
		0x01, 0x00, // id
		0x00,       // not opaque
		0x01,       // copy transform
		0x01,       // copy position
		0x01, 0xfd, // has frame, frame
		0x80, // opacity
	}, data)
}

func TestBoneCopiesFromPrevious(t *testing.T) {
	prev := walkBone(1, 3, 4)
	prev.ScaleX, prev.RotateSkew0, prev.RotateSkew1, prev.ScaleY = 2, 0.1, 0.2, 3

	b := prev
	b.Id = 2
	b.Frame = 7
	data := encodeBone(t, b, &prev)
	p := planBone(&b, &prev)
	assert.True(t, p.copyTransform)
	assert.True(t, p.copyPosition)
	assert.Len(t, data, p.size())

	decoded, err := readBone(newStreamReader(bytes.NewReader(data)), &prev)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)

	b.X = 100
	p = planBone(&b, &prev)
	assert.True(t, p.copyTransform)
	assert.False(t, p.copyPosition)
	decoded, err = readBone(newStreamReader(bytes.NewReader(encodeBone(t, b, &prev))), &prev)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestBoneCopyWithoutPrevious(t *testing.T) {
	_, err := readBone(newStreamReader(bytes.NewReader([]byte{
		0x01, 0x00, 0x01,
		0x01, // copy transform
	})), nil)
	assert.True(t, errors.Is(err, ErrNoPrevBoneTransform), "%v", err)

	_, err = readBone(newStreamReader(bytes.NewReader([]byte{
		0x01, 0x00, 0x01,
		0x00, 0x01, 0x01,
		0x01, // copy position
	})), nil)
	assert.True(t, errors.Is(err, ErrNoPrevBonePosition), "%v", err)
}

func TestBoneTruncated(t *testing.T) {
	data := encodeBone(t, walkBone(1, 5, 5), nil)
	for i := 0; i < len(data); i++ {
		_, err := readBone(newStreamReader(bytes.NewReader(data[:i])), nil)
		var ioErr *IOError
		assert.True(t, errors.As(err, &ioErr), "cut at %d: %v", i, err)
	}
}

func TestBoneOpacity(t *testing.T) {
	var tests = []struct {
		in  float64
		out float64
	}{
		{1, 1},
		{0, 0},
		{0.5, 128.0 / 255},
		{0.999, 1},
		{0.001, 0},
		{100.0 / 255, 100.0 / 255},
	}

	for _, test := range tests {
		b := walkBone(1, 0, 0)
		b.Opacity = test.in
		decoded, err := readBone(newStreamReader(bytes.NewReader(encodeBone(t, b, nil))), nil)
		require.NoError(t, err)
		if decoded.Opacity != test.out {
			t.Errorf("opacity %v decoded as %v; expected %v", test.in, decoded.Opacity, test.out)
		}
		if q := QuantizeOpacity(test.in); q != test.out {
			t.Errorf("QuantizeOpacity(%v)=%v; expected %v", test.in, q, test.out)
		}
	}
}

func TestBoneOpacityOutOfRange(t *testing.T) {
	for _, opacity := range []float64{-0.1, 1.5, math.NaN(), math.Inf(1)} {
		b := walkBone(1, 0, 0)
		b.Opacity = opacity
		var buf bytes.Buffer
		err := writeBone(newStreamWriter(&buf), &b, planBone(&b, nil))
		var rangeErr *OpacityRangeError
		assert.True(t, errors.As(err, &rangeErr), "opacity %v: %v", opacity, err)
		assert.Zero(t, buf.Len())
	}
}

func TestIsPartialCloneOf(t *testing.T) {
	base := walkBone(1, 5, 5)

	other := base
	other.Frame = 9
	assert.True(t, other.IsPartialCloneOf(&base), "frame is not part of the comparison")

	for name, change := range map[string]func(b *Bone){
		"id":      func(b *Bone) { b.Id = 2 },
		"scale x": func(b *Bone) { b.ScaleX = 2 },
		"skew 0":  func(b *Bone) { b.RotateSkew0 = 0.1 },
		"skew 1":  func(b *Bone) { b.RotateSkew1 = 0.1 },
		"scale y": func(b *Bone) { b.ScaleY = -1 },
		"x":       func(b *Bone) { b.X = 6 },
		"y":       func(b *Bone) { b.Y = 6 },
		"opacity": func(b *Bone) { b.Opacity = 0.5 },
	} {
		other := base
		change(&other)
		assert.False(t, other.IsPartialCloneOf(&base), name)
	}
}

func TestBoneMatrix(t *testing.T) {
	b := walkBone(1, 5, 5)
	assert.Equal(t, mgl32.Vec2{6, 7}, b.TransformPoint(1, 2))

	b.ScaleX, b.RotateSkew0, b.RotateSkew1, b.ScaleY = 0, 1, -1, 0
	assert.Equal(t, mgl32.Vec2{4, 7}, b.TransformPoint(2, 1))
	assert.Equal(t, mgl32.Mat3{0, 1, 0, -1, 0, 0, 5, 5, 1}, b.Matrix())
}

func TestBoneNegativeZeroIsIdentity(t *testing.T) {
	b := NewBone(1)
	b.RotateSkew0 = float32(math.Copysign(0, -1))
	assert.Equal(t, shapeIdentity, selectTransformShape(&b))

	data := encodeBone(t, b, nil)
	decoded, err := readBone(newStreamReader(bytes.NewReader(data)), nil)
	require.NoError(t, err)
	assert.False(t, math.Signbit(float64(decoded.RotateSkew0)))
	assert.True(t, decoded.TransformEquals(&b))
}
