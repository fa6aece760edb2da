package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "anmtool",
		Short: "Inspect and convert ANM animation files",
		Long: `anmtool reads Brawlhalla ANM animation files, prints their classes
and animations, and converts them to and from json, yaml and cbor.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("lang", "en", "Language used to format numbers")

	root.AddCommand(
		newDumpCmd(),
		newConvertCmd(),
		newVerifyCmd(),
		newIndexCmd(),
		newHashCmd(),
	)
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// printer formats counts for the --lang locale, English when it does not parse.
func printer(cmd *cobra.Command) *message.Printer {
	tag := language.English
	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	return message.NewPrinter(tag)
}
