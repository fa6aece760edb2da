package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/anm_browser/anm"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <file.anm>",
		Short: "List animation headers without decoding frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "Failed to open %s", args[0])
			}
			defer f.Close()

			idx, err := anm.ReadIndex(f)
			if err != nil {
				return err
			}

			p := printer(cmd)
			out := cmd.OutOrStdout()
			p.Fprintf(out, "header %d, %d classes\n", idx.Header, len(idx.Classes))
			for _, key := range idx.ClassKeys() {
				ci := idx.Classes[key]
				p.Fprintf(out, "class %q index %q file %q\n", key, ci.Index, ci.FileName)
				for _, h := range ci.Animations {
					p.Fprintf(out, "  %q: %d frames in %d bytes, %d data words\n",
						h.Name, h.FrameCount, h.FramesByteSize, h.DataSize)
				}
			}
			return nil
		},
	}
}
