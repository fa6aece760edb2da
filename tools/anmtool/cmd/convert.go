package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mogaika/anm_browser/anm"
	"github.com/mogaika/anm_browser/anm/anmconv"
)

func newConvertCmd() *cobra.Command {
	var level int

	c := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between anm, json, yaml and cbor",
		Long: `Convert an animation file. Formats are picked by file extension:
.anm, .json, .yaml or .yml, .cbor.

Example:
  anmtool convert Animation_Sword.anm sword.yaml
  anmtool convert sword.yaml Animation_Sword.anm --level 6`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := anmconv.Load(args[0])
			if err != nil {
				return err
			}
			if err := anmconv.Save(args[1], f, level); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], args[1])
			return nil
		},
	}
	c.Flags().IntVar(&level, "level", anm.DefaultCompressionLevel, "zlib compression level for .anm output")
	return c
}
