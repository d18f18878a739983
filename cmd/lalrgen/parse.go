package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/lalrgen/driver"
	spec "github.com/nihei9/lalrgen/spec/grammar"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source    *string
	onlyParse *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <compiled grammar file path>",
		Short:   "Parse a sequence of terminal names",
		Example: `  echo 'id + id * id' | lalrgen parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser performs only parse and doesn't print a CST")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}
	gram, err := driver.NewGrammar(cgram)
	if err != nil {
		return err
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	var opts []driver.ParserOption
	var treeAct *driver.SyntaxTreeActionSet
	if !*parseFlags.onlyParse {
		treeAct = driver.NewSyntaxTreeActionSet(gram)
		opts = append(opts, driver.SemanticAction(treeAct))
	}

	p, err := driver.NewParser(driver.NewTerminalStream(gram, src), gram, opts...)
	if err != nil {
		return err
	}
	if err := p.Parse(); err != nil {
		return err
	}

	if synErrs := p.SyntaxErrors(); len(synErrs) > 0 {
		for _, synErr := range synErrs {
			fmt.Fprintln(os.Stderr, describeSyntaxError(synErr))
		}
		return fmt.Errorf("%v syntax error(s) found", len(synErrs))
	}

	if treeAct != nil {
		driver.PrintTree(os.Stdout, treeAct.CST())
	}

	return nil
}

func describeSyntaxError(synErr *driver.SyntaxError) string {
	tok := synErr.Token

	var msg string
	switch {
	case tok.EOF():
		msg = "<eof>"
	case tok.Invalid():
		msg = fmt.Sprintf("'%v' (<invalid>)", string(tok.Lexeme()))
	default:
		msg = fmt.Sprintf("'%v'", string(tok.Lexeme()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v: %v", synErr, msg)
	if len(synErr.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(synErr.ExpectedTerminals, ", "))
	}
	return b.String()
}

// readCompiledGrammar accepts both of the JSON and the binary forms.
func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	if len(data) > 0 && data[0] == '{' {
		err = json.Unmarshal(data, cgram)
	} else {
		err = cgram.UnmarshalBinary(data)
	}
	if err != nil {
		return nil, err
	}
	return cgram, nil
}
