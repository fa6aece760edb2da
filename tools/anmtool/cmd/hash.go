package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/anm_browser/utils"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print blake3 content hashes",
		Long: `Print the blake3 content hash of every file, the same value the
browser serves as ETag.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return errors.Wrapf(err, "Failed to open %s", name)
				}
				hash, err := utils.ReaderContentHash(f)
				f.Close()
				if err != nil {
					return errors.Wrapf(err, "Failed to read %s", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hash, name)
			}
			return nil
		},
	}
}
