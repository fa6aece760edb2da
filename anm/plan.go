package anm

// Encoding decisions are taken once by the plan functions below. Both the
// writers and the byte size calculation consume the resulting plans, so the
// frame block size stored in the animation header always matches what is
// written after it.

type transformShape uint8

const (
	shapeGeneral transformShape = iota
	shapeSymmetric
	shapeIdentity
)

func (s transformShape) String() string {
	switch s {
	case shapeIdentity:
		return "identity"
	case shapeSymmetric:
		return "symmetric"
	default:
		return "general"
	}
}

func selectTransformShape(b *Bone) transformShape {
	switch {
	case b.ScaleX == 1 && b.ScaleY == 1 && b.RotateSkew0 == 0 && b.RotateSkew1 == 0:
		return shapeIdentity
	case b.ScaleY == -b.ScaleX && b.RotateSkew0 == b.RotateSkew1:
		return shapeSymmetric
	default:
		return shapeGeneral
	}
}

type bonePlan struct {
	copyTransform bool
	shape         transformShape
	copyPosition  bool
	hasFrame      bool
	opaque        bool
}

// planBone decides how b is stored when prev (may be nil) is the bone it is
// compared against.
func planBone(b, prev *Bone) bonePlan {
	p := bonePlan{
		hasFrame: b.Frame != DefaultBoneFrame,
		opaque:   b.Opacity == 1,
	}
	if prev != nil {
		p.copyTransform = b.TransformEquals(prev)
		p.copyPosition = b.PositionEquals(prev)
	}
	if !p.copyTransform {
		p.shape = selectTransformShape(b)
	}
	return p
}

func (p bonePlan) size() int {
	n := 2 // id
	n++    // opaque
	n++    // copy transform
	if !p.copyTransform {
		n++ // special transform
		switch p.shape {
		case shapeIdentity:
			n++
		case shapeSymmetric:
			n += 1 + 2*4
		default:
			n += 4 * 4
		}
	}
	n++ // copy position
	if !p.copyPosition {
		n += 2 * 4
	}
	n++ // has frame
	if p.hasFrame {
		n++
	}
	if !p.opaque {
		n++
	}
	return n
}

type cloneLevel uint8

const (
	cloneNone cloneLevel = iota
	clonePartial
	cloneFull
)

type frameBonePlan struct {
	clone cloneLevel
	bone  bonePlan
}

// planFrameBone decides how b is stored inside a frame. crossRef is the bone
// at the same index in the previous frame, intraRef the preceding bone of the
// current frame. Either may be nil.
func planFrameBone(b, crossRef, intraRef *Bone) frameBonePlan {
	if crossRef != nil && b.IsPartialCloneOf(crossRef) {
		if b.Frame == crossRef.Frame {
			return frameBonePlan{clone: cloneFull}
		}
		return frameBonePlan{clone: clonePartial}
	}
	return frameBonePlan{clone: cloneNone, bone: planBone(b, intraRef)}
}

func (p frameBonePlan) size() int {
	n := 1 // clone from previous frame
	switch p.clone {
	case cloneFull:
		n++ // same frame value
	case clonePartial:
		n += 2 // same frame value, frame override
	default:
		n += p.bone.size()
	}
	return n
}

func planFrame(f, prev *Frame) []frameBonePlan {
	plans := make([]frameBonePlan, len(f.Bones))
	for i := range f.Bones {
		var crossRef, intraRef *Bone
		if prev != nil && i < len(prev.Bones) {
			crossRef = &prev.Bones[i]
		}
		if i > 0 {
			intraRef = &f.Bones[i-1]
		}
		plans[i] = planFrameBone(&f.Bones[i], crossRef, intraRef)
	}
	return plans
}
