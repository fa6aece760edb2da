package main

import (
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/mogaika/anm_browser/config"
	"github.com/mogaika/anm_browser/vfs"
	"github.com/mogaika/anm_browser/web"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("anm_browser", pflag.ExitOnError)
	flags.StringP("config", "c", "", "Path to yaml config")
	flags.StringP("addr", "i", ":8000", "Address of server")
	flags.String("dir", "./anims", "Path to folder with .anm files")
	flags.Int("level", config.Default().Codec.CompressionLevel, "zlib compression level of uploaded files")
	flags.Bool("check", false, "Decode every .anm file in the folder, report failures and exit")
	return flags
}

// configure loads the config file and applies only the flags that were set on top of it.
func configure(flags *pflag.FlagSet) error {
	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if err := config.Apply(cfg); err != nil {
		return err
	}

	if flags.Changed("addr") {
		addr, _ := flags.GetString("addr")
		config.SetServerAddr(addr)
	}
	if flags.Changed("dir") {
		dir, _ := flags.GetString("dir")
		config.SetRoot(dir)
	}
	if flags.Changed("level") {
		level, _ := flags.GetInt("level")
		if err := config.SetCompressionLevel(level); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	flags := newFlagSet()
	flags.Parse(os.Args[1:])

	if err := configure(flags); err != nil {
		log.Fatal(err)
	}
	log.Printf("[config] %+v", config.Get())

	if s, err := os.Stat(config.GetRoot()); err != nil {
		log.Fatal(err)
	} else if !s.IsDir() {
		log.Fatalf("%q is not a directory", config.GetRoot())
	}

	rootfs := vfs.NewDirectoryDriver(config.GetRoot())
	if check, _ := flags.GetBool("check"); check {
		failed, err := parseCheck(rootfs)
		if err != nil {
			log.Fatal(err)
		}
		if failed != 0 {
			os.Exit(1)
		}
		return
	}

	if err := web.StartServer(config.GetServerAddr(), rootfs); err != nil {
		log.Fatal(err)
	}
}
