package anm

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// AnimationCollection keys animations by name.
type AnimationCollection map[string]*Animation

func (ac AnimationCollection) Get(name string) *Animation {
	return ac[name]
}

func (ac AnimationCollection) Len() int {
	return len(ac)
}

// Names returns the animation names in ascending order.
func (ac AnimationCollection) Names() []string {
	names := make([]string, 0, len(ac))
	for name := range ac {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Class is a named group of animations sharing a sprite sheet.
type Class struct {
	Index      string              `json:"index" yaml:"index"`
	FileName   string              `json:"file_name" yaml:"file_name"`
	Animations AnimationCollection `json:"animations" yaml:"animations"`
}

// Insert stores a under its name and returns the animation it replaced, if any.
func (c *Class) Insert(a *Animation) *Animation {
	if c.Animations == nil {
		c.Animations = make(AnimationCollection)
	}
	old := c.Animations[a.Name]
	c.Animations[a.Name] = a
	return old
}

func readClass(sr *streamReader) (*Class, error) {
	c := &Class{}
	var err error

	if c.Index, err = sr.readString("class index"); err != nil {
		return nil, err
	}
	if c.FileName, err = sr.readString("class file name"); err != nil {
		return nil, err
	}
	animationCount, err := sr.readLU32()
	if err != nil {
		return nil, err
	}

	c.Animations = make(AnimationCollection, prealloc(animationCount))
	for i := uint32(0); i < animationCount; i++ {
		a, err := readAnimation(sr)
		if err != nil {
			return nil, errors.Wrapf(err, "class %q animation %d", c.Index, i)
		}
		c.Insert(a)
	}
	return c, nil
}

func writeClass(sw *streamWriter, c *Class) error {
	if err := checkSize("class index length", len(c.Index), math.MaxUint16); err != nil {
		return err
	}
	if err := checkSize("class file name length", len(c.FileName), math.MaxUint16); err != nil {
		return err
	}
	if err := checkSize("animation count", c.Animations.Len(), math.MaxUint32); err != nil {
		return err
	}

	if err := sw.writeString("class index length", c.Index); err != nil {
		return err
	}
	if err := sw.writeString("class file name length", c.FileName); err != nil {
		return err
	}
	if err := sw.writeLU32(uint32(c.Animations.Len())); err != nil {
		return err
	}
	for _, name := range c.Animations.Names() {
		if err := writeAnimation(sw, c.Animations[name]); err != nil {
			return errors.Wrapf(err, "class %q", c.Index)
		}
	}
	return nil
}
