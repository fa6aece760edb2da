package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/anm_browser/anm"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file.anm>",
		Short: "Check that a file survives a decode and encode cycle",
		Long: `Decode a file, encode it, decode the result and encode it again.
Both encodings must match byte for byte, and every frame block size stored
in the original file must match the size the encoder computes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "Failed to read %s", args[0])
			}
			return verify(cmd, data)
		},
	}
}

func verify(cmd *cobra.Command, data []byte) error {
	f, err := anm.NewFromData(data)
	if err != nil {
		return errors.Wrapf(err, "decode")
	}
	first, err := f.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode")
	}
	again, err := anm.NewFromData(first)
	if err != nil {
		return errors.Wrapf(err, "decode of encoded file")
	}
	second, err := again.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode of decoded file")
	}
	if !bytes.Equal(first, second) {
		return errors.New("encodings differ after a decode and encode cycle")
	}

	idx, err := anm.ReadIndex(bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, "index")
	}
	mismatches := f.CheckIndex(idx)
	for _, m := range mismatches {
		fmt.Fprintf(cmd.OutOrStdout(), "class %q animation %q stores %d frame bytes, encoder computes %d\n",
			m.Class, m.Animation, m.Stored, m.Computed)
	}
	if len(mismatches) != 0 {
		return errors.Errorf("%d frame block sizes differ", len(mismatches))
	}

	p := printer(cmd)
	p.Fprintf(cmd.OutOrStdout(), "ok: %d classes, %d bytes encoded, original bytes reproduced: %v\n",
		len(f.Classes), len(first), bytes.Equal(first, data))
	return nil
}
