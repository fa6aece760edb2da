package pack

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/anm_browser/vfs"
)

type ResourceSource interface {
	Name() string
	Size() int64
	Save(in io.Reader) error
}

type FileLoader func(src ResourceSource, r *io.SectionReader) (interface{}, error)

var (
	gHandlersLock sync.RWMutex
	gHandlers     = make(map[string]FileLoader)
)

func SetHandler(format string, ldr FileLoader) {
	gHandlersLock.Lock()
	defer gHandlersLock.Unlock()
	gHandlers[strings.ToUpper(format)] = ldr
}

// Formats returns the registered extensions in upper case.
func Formats() []string {
	gHandlersLock.RLock()
	defer gHandlersLock.RUnlock()
	result := make([]string, 0, len(gHandlers))
	for ext := range gHandlers {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

func CallHandler(s ResourceSource, r *io.SectionReader) (interface{}, error) {
	ext := strings.ToUpper(filepath.Ext(s.Name()))

	gHandlersLock.RLock()
	h, found := gHandlers[ext]
	gHandlersLock.RUnlock()

	if !found {
		return nil, errors.Errorf("[pack] Cannot find handler for '%s' extension", ext)
	}
	return h(s, r)
}

type PackResSrc struct {
	pf vfs.File
	d  vfs.Directory
}

func (s *PackResSrc) Name() string {
	return s.pf.Name()
}

func (s *PackResSrc) Size() int64 {
	return s.pf.Size()
}

func (s *PackResSrc) Save(in io.Reader) error {
	return SaveInstance(s.d, s.pf.Name(), in)
}

func GetInstanceHandler(d vfs.Directory, fileName string) (interface{}, error) {
	f, err := vfs.DirectoryGetFile(d, fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get file '%s'", fileName)
	}

	r, err := vfs.OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get instance of '%s'", fileName)
	}
	defer f.Close()

	inst, err := CallHandler(&PackResSrc{d: d, pf: f}, r)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Handler error")
	}
	return inst, nil
}

// SaveInstance replaces the content of fileName, creating the file when needed.
func SaveInstance(d vfs.Directory, fileName string, in io.Reader) error {
	f, err := vfs.DirectoryGetOrCreateFile(d, fileName)
	if err != nil {
		return errors.Wrapf(err, "[pack] Cannot get file '%s'", fileName)
	}
	return vfs.OpenFileAndCopy(f, in)
}
