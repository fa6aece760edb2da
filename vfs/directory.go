package vfs

import (
	"io"
	"os"
	path_ "path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidName = errors.New("invalid element name")

// CheckName rejects names that would leave the directory.
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

func (dd *DirectoryDriver) Init(parent Directory) {
	if p, ok := parent.(*DirectoryDriver); ok {
		dd.path = path_.Join(p.path, path_.Base(dd.path))
	}
}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Error getting directory '%s' info", dd.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	return result, nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	newPath := path_.Join(dd.path, name)
	s, err := os.Stat(newPath)
	if err != nil {
		return nil, errors.Wrapf(err, "Stat error")
	}

	var e Element
	if s.IsDir() {
		e = NewDirectoryDriver(newPath)
	} else {
		e = NewDirectoryDriverFile(newPath)
	}
	e.Init(dd)
	return e, nil
}

func (dd *DirectoryDriver) Add(e Element) error {
	if err := CheckName(e.Name()); err != nil {
		return err
	}
	path := path_.Join(dd.path, e.Name())
	if e.IsDirectory() {
		return os.Mkdir(path, os.ModePerm)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return errors.Wrapf(err, "file '%s' creation failure", path)
	}
	e.Init(dd)
	return f.Close()
}

func (dd *DirectoryDriver) Remove(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	return os.Remove(path_.Join(dd.path, name))
}

type DirectoryDriverFile struct {
	path string
	f    *os.File
}

func NewDirectoryDriverFile(path string) *DirectoryDriverFile {
	return &DirectoryDriverFile{path: path}
}

func (ddf *DirectoryDriverFile) Init(parent Directory) {
	if dd, ok := parent.(*DirectoryDriver); ok {
		ddf.path = path_.Join(dd.path, path_.Base(ddf.path))
	}
}

func (ddf *DirectoryDriverFile) Name() string {
	return path_.Base(ddf.path)
}

func (ddf *DirectoryDriverFile) IsDirectory() bool {
	return false
}

func (ddf *DirectoryDriverFile) Size() int64 {
	stat, err := os.Stat(ddf.path)
	if err != nil {
		return 0
	}
	return stat.Size()
}

func (ddf *DirectoryDriverFile) Open(readonly bool) error {
	if ddf.f != nil {
		return errors.Errorf("File '%s' already opened", ddf.path)
	}

	flags := os.O_RDWR
	if readonly {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(ddf.path, flags, 0)
	if err != nil {
		return errors.Wrapf(err, "os.Open('%s')", ddf.path)
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f == nil {
		return nil
	}
	err := ddf.f.Close()
	ddf.f = nil
	return errors.Wrapf(err, "os.File.Close()")
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, errors.New("First you need to open file")
	}
	return io.NewSectionReader(ddf.f, 0, ddf.Size()), nil
}

// Copy writes src next to the file and renames it over, so readers never
// see a partially written animation file.
func (ddf *DirectoryDriverFile) Copy(src io.Reader) error {
	if err := ddf.Close(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(path_.Dir(ddf.path), "."+path_.Base(ddf.path)+".*")
	if err != nil {
		return errors.Wrapf(err, "os.CreateTemp('%s')", ddf.path)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "io.Copy(...)")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "os.File.Close()")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), ddf.path), "os.Rename('%s')", ddf.path)
}
