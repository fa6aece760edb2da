package anm

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

func encodeBone(t *testing.T, b Bone, prev *Bone) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeBone(newStreamWriter(&buf), &b, planBone(&b, prev)))
	return buf.Bytes()
}

func encodeFrame(t *testing.T, f, prev *Frame) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeFrame(newStreamWriter(&buf), f, prev))
	return buf.Bytes()
}

// compressedFile builds a file from a raw header and an uncompressed body.
func compressedFile(t *testing.T, header []byte, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(header)
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func walkBone(id int16, x, y float32) Bone {
	b := NewBone(id)
	b.X, b.Y = x, y
	return b
}

func sampleAnimation(name string) *Animation {
	torso := walkBone(10, 5, 5)
	arm := walkBone(11, 5, 5)
	arm.ScaleX, arm.RotateSkew0, arm.RotateSkew1, arm.ScaleY = 0.5, 0.25, 0.25, -0.5
	arm.Opacity = QuantizeOpacity(0.5)
	leg := walkBone(12, -3, 7.5)
	leg.ScaleX, leg.RotateSkew0, leg.RotateSkew1, leg.ScaleY = 1.5, -0.1, 0.2, 0.75
	leg.Frame = 4

	f0 := Frame{Id: 0, Bones: []Bone{torso, arm, leg}, FireSocket: &Point{X: 12.5, Y: -4}}

	f1 := Frame{Id: 1, Bones: []Bone{torso, arm, leg}}
	f1.Bones[0].Frame = 2
	f1.Bones[2].X = -2

	f2 := Frame{Id: 2, Bones: []Bone{torso, arm}, EbPlatformPos: &Point{X: 1, Y: 2}}
	f2.Bones[1].Opacity = QuantizeOpacity(0.2)

	return &Animation{
		Name:          name,
		LoopStart:     1,
		RecoveryStart: 2,
		FreeStart:     3,
		PreviewFrame:  1,
		BaseStart:     0,
		Data:          []uint32{0xdeadbeef, 7, 0},
		Frames:        []Frame{f0, f1, f2},
	}
}

func sampleFile() *File {
	f := NewFile(-42)

	idle := &Class{Index: "1", FileName: "Animation_Idle.swf"}
	idle.Insert(sampleAnimation("Idle"))
	idle.Insert(sampleAnimation("IdleBlink"))
	f.Classes["Idle"] = idle

	empty := &Class{Index: "2", FileName: "Animation_Empty.swf", Animations: AnimationCollection{}}
	f.Classes["Empty"] = empty

	return f
}
