package vfs

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

func OpenFileAndGetReader(f File, readonly bool) (*io.SectionReader, error) {
	if err := f.Open(readonly); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "Cannot get file '%s' reader", f.Name())
	}
	return r, nil
}

func OpenFileAndCopy(f File, src io.Reader) error {
	if err := f.Copy(src); err != nil {
		return errors.Wrapf(err, "Cannot copy data to file '%s'", f.Name())
	}
	return nil
}

func ReadFile(f File) ([]byte, error) {
	r, err := OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file '%s'", f.Name())
	}
	return data, nil
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	}
	if e.IsDirectory() {
		return nil, errors.Errorf("File '%s' is directory, not a file!", name)
	}
	return e.(File), nil
}

// DirectoryGetOrCreateFile returns the named file, adding an empty one when
// it does not exist yet.
func DirectoryGetOrCreateFile(d Directory, name string) (File, error) {
	f, err := DirectoryGetFile(d, name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	nf := NewDirectoryDriverFile(name)
	if err := d.Add(nf); err != nil {
		return nil, errors.Wrapf(err, "Cannot create file '%s'", name)
	}
	return DirectoryGetFile(d, name)
}

// ListByExt returns the sorted names of elements with the given extension,
// compared case insensitively.
func ListByExt(d Directory, ext string) ([]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(filepath.Ext(name), ext) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result, nil
}
