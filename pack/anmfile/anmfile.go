// Package anmfile serves .anm files through the pack handler registry.
package anmfile

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/anm_browser/anm"
	"github.com/mogaika/anm_browser/pack"
	"github.com/mogaika/anm_browser/vfs"
)

const Ext = ".ANM"

func init() {
	pack.SetHandler(Ext, func(src pack.ResourceSource, r *io.SectionReader) (interface{}, error) {
		f, err := anm.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to decode '%s'", src.Name())
		}
		return f, nil
	})
}

func Load(d vfs.Directory, name string) (*anm.File, error) {
	inst, err := pack.GetInstanceHandler(d, name)
	if err != nil {
		return nil, err
	}
	f, ok := inst.(*anm.File)
	if !ok {
		return nil, errors.Errorf("File '%s' is not an animation file", name)
	}
	return f, nil
}

// Index scans the animation headers of name without decoding frames.
func Index(d vfs.Directory, name string) (*anm.Index, error) {
	f, err := vfs.DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	r, err := vfs.OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := anm.ReadIndex(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to index '%s'", name)
	}
	return idx, nil
}

// Save encodes f fully before touching the stored file, so an encode error
// leaves the previous content in place.
func Save(d vfs.Directory, name string, f *anm.File, level int) error {
	var buf bytes.Buffer
	if err := f.EncodeLevel(&buf, level); err != nil {
		return errors.Wrapf(err, "Failed to encode '%s'", name)
	}
	return pack.SaveInstance(d, name, &buf)
}
