// Package anmconv converts decoded ANM files to and from editable
// interchange formats.
package anmconv

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/anm_browser/anm"
)

type Format int

const (
	FormatANM Format = iota
	FormatJSON
	FormatYAML
	FormatCBOR
)

var formatNames = map[Format]string{
	FormatANM:  "anm",
	FormatJSON: "json",
	FormatYAML: "yaml",
	FormatCBOR: "cbor",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

func (f Format) Ext() string {
	return "." + f.String()
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCBOR:
		return "application/cbor"
	default:
		return "application/octet-stream"
	}
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "anm":
		return FormatANM, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	}
	return 0, errors.Errorf("Unknown format %q", name)
}

func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	if cborEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic("anmconv: cbor encoder initialization failed: " + err.Error())
	}
}

func Marshal(f *anm.File, format Format) ([]byte, error) {
	switch format {
	case FormatANM:
		return f.Marshal()
	case FormatJSON:
		return json.MarshalIndent(f, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, errors.Wrapf(err, "Failed to marshal yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCBOR:
		return cborEncMode.Marshal(f)
	}
	return nil, errors.Errorf("Unknown format %v", format)
}

func Unmarshal(data []byte, format Format) (*anm.File, error) {
	if format == FormatANM {
		return anm.NewFromData(data)
	}

	f := &anm.File{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, f)
	case FormatYAML:
		err = yaml.Unmarshal(data, f)
	case FormatCBOR:
		err = cbor.Unmarshal(data, f)
	default:
		return nil, errors.Errorf("Unknown format %v", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal %v", format)
	}

	normalize(f)
	return f, nil
}

// normalize keys every animation by its own name, as the decoder does.
// Mismatching keys in hand-edited documents collapse with the last name in
// key order winning.
func normalize(f *anm.File) {
	if f.Classes == nil {
		f.Classes = make(map[string]*anm.Class)
	}
	for key, c := range f.Classes {
		if c == nil {
			c = &anm.Class{}
			f.Classes[key] = c
		}
		animations := c.Animations
		c.Animations = make(anm.AnimationCollection, len(animations))
		for _, name := range animations.Names() {
			if a := animations[name]; a != nil {
				c.Insert(a)
			}
		}
	}
}

func Load(path string) (*anm.File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	f, err := Unmarshal(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load %q", path)
	}
	return f, nil
}

// Save writes f to path in the format picked by its extension. level is the
// zlib level used for .anm output.
func Save(path string, f *anm.File, level int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	if format == FormatANM {
		var buf bytes.Buffer
		if err := f.EncodeLevel(&buf, level); err != nil {
			return errors.Wrapf(err, "Failed to encode %q", path)
		}
		data = buf.Bytes()
	} else if data, err = Marshal(f, format); err != nil {
		return errors.Wrapf(err, "Failed to marshal %q", path)
	}

	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(err, "Failed to write %q", path)
	}
	return nil
}
