package cmd

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/mogaika/anm_browser/anm"
	"github.com/mogaika/anm_browser/anm/anmconv"
	"github.com/mogaika/anm_browser/utils"
)

func newDumpCmd() *cobra.Command {
	var spew bool
	var classKey string

	c := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the classes and animations of a file",
		Long: `Print the classes and animations of an animation file. Any format
accepted by convert can be dumped.

Example:
  anmtool dump Animation_Sword.anm --class Sword`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := anmconv.Load(args[0])
			if err != nil {
				return err
			}

			keys := f.ClassKeys()
			if classKey != "" {
				if f.Class(classKey) == nil {
					return errors.Errorf("Class %q not found in %s", classKey, args[0])
				}
				keys = []string{classKey}
			}

			out := cmd.OutOrStdout()
			if spew {
				if classKey != "" {
					utils.FDump(out, f.Class(classKey))
				} else {
					utils.FDump(out, f)
				}
				return nil
			}

			p := printer(cmd)
			p.Fprintf(out, "header %d, %d classes\n", f.Header, len(f.Classes))
			for _, key := range keys {
				dumpClass(out, p, key, f.Class(key))
			}
			return nil
		},
	}
	c.Flags().BoolVar(&spew, "spew", false, "Dump the whole decoded graph")
	c.Flags().StringVar(&classKey, "class", "", "Only dump the class with this key")
	return c
}

func dumpClass(out io.Writer, p *message.Printer, key string, c *anm.Class) {
	p.Fprintf(out, "class %q index %q file %q, %d animations\n", key, c.Index, c.FileName, c.Animations.Len())
	for _, name := range c.Animations.Names() {
		a := c.Animations.Get(name)
		bones := 0
		for i := range a.Frames {
			bones += len(a.Frames[i].Bones)
		}
		p.Fprintf(out, "  %q: %d frames, %d bones, %d bytes, loop %d recovery %d free %d preview %d base %d, %d data words\n",
			a.Name, len(a.Frames), bones, a.FramesByteSize(),
			a.LoopStart, a.RecoveryStart, a.FreeStart, a.PreviewFrame, a.BaseStart, len(a.Data))
		if lo, hi, ok := a.Bounds(); ok {
			p.Fprintf(out, "    bounds (%.2f, %.2f)-(%.2f, %.2f)\n", lo.X(), lo.Y(), hi.X(), hi.Y())
		}
	}
}
