package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nihei9/lalrgen/grammar"
	spec "github.com/nihei9/lalrgen/spec/grammar"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	class *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "describe <report or grammar file path>",
		Short: "Print states and conflicts of a grammar in a readable format",
		Example: `  lalrgen describe grammar-report.json
  lalrgen describe grammar.toml`,
		Args: cobra.ExactArgs(1),
		RunE: runDescribe,
	}
	describeFlags.class = cmd.Flags().String("class", grammar.ClassLALR1.String(), "table class used for a grammar file [lalr1|slr1]")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	var report *spec.Report
	if filepath.Ext(args[0]) == ".toml" {
		class, err := grammar.ParseClass(*describeFlags.class)
		if err != nil {
			return err
		}
		_, report, err = compileFile(args[0], []grammar.CompileOption{
			grammar.SpecifyClass(class),
			grammar.EnableReporting(),
		})
		if err != nil {
			return err
		}
	} else {
		var err error
		report, err = readReport(args[0])
		if err != nil {
			return err
		}
	}

	return grammar.WriteDescription(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}
