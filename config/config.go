package config

import (
	"bytes"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr string `yaml:"addr"`
	Root string `yaml:"root"`
}

type Codec struct {
	CompressionLevel int `yaml:"compression_level"`
}

type Config struct {
	Server Server `yaml:"server"`
	Codec  Codec  `yaml:"codec"`
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":8000", Root: "./anims"},
		Codec:  Codec{CompressionLevel: zlib.BestCompression},
	}
}

var current = Default()

// Load reads a yaml config. Missing keys keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "Cannot read config %q", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "Cannot parse config %q", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := checkCompressionLevel(c.Codec.CompressionLevel); err != nil {
		return err
	}
	if c.Server.Root == "" {
		return errors.New("server.root is empty")
	}
	return nil
}

func Apply(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	current = c
	return nil
}

func Get() Config {
	return current
}

func checkCompressionLevel(level int) error {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return errors.Errorf("Invalid compression level %d", level)
	}
	return nil
}

func GetCompressionLevel() int {
	return current.Codec.CompressionLevel
}

func SetCompressionLevel(level int) error {
	if err := checkCompressionLevel(level); err != nil {
		return err
	}
	current.Codec.CompressionLevel = level
	return nil
}

func GetServerAddr() string {
	return current.Server.Addr
}

func SetServerAddr(addr string) {
	current.Server.Addr = addr
}

func GetRoot() string {
	return current.Server.Root
}

func SetRoot(root string) {
	current.Server.Root = root
}
