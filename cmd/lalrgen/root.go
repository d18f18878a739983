package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lalrgen",
	Short: "Generate LALR(1) parsing tables from a grammar",
	Long: `lalrgen provides three features:
- Compiles a TOML grammar description into portable parsing tables.
- Prints the states and conflicts of a grammar in a readable format.
- Parses a sequence of terminal names with compiled tables.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

var tracedPackages = []string{
	"lalrgen.grammar",
	"lalrgen.driver",
}

func setUp(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range tracedPackages {
		tracing.Select(key).SetTraceLevel(level)
	}

	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}
