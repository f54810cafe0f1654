package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/booklab/tocsplit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tocsplit",
	Short: "Split a book's flat text along its table of contents",
	Long: `tocsplit matches a document's table of contents against its body text
and produces a chapter/section/subsection tree where every node carries
the raw text between its own heading and the next one.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tocsplit %s\n", version.String()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
