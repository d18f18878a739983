package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/nihei9/lalrgen/error"
	"github.com/nihei9/lalrgen/grammar"
	tomlspec "github.com/nihei9/lalrgen/spec"
	spec "github.com/nihei9/lalrgen/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	formatJSON   = "json"
	formatBinary = "bin"
)

var compileFlags = struct {
	output   *string
	format   *string
	class    *string
	compress *bool
	expectSR *int
	expectRR *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "compile <grammar file path>...",
		Short: "Compile grammars you defined into parsing tables",
		Example: `  lalrgen compile grammar.toml -o grammar.json
  lalrgen compile --format bin -o out/ expr.toml stmt.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file or directory path (default stdout)")
	compileFlags.format = cmd.Flags().String("format", formatJSON, "output format [json|bin]")
	compileFlags.class = cmd.Flags().String("class", grammar.ClassLALR1.String(), "table class [lalr1|slr1]")
	compileFlags.compress = cmd.Flags().Bool("compress", false, "compress the action and goto tables")
	compileFlags.expectSR = cmd.Flags().Int("expect-sr", -1, "fail when there are more shift/reduce conflicts than this")
	compileFlags.expectRR = cmd.Flags().Int("expect-rr", -1, "fail when there are more reduce/reduce conflicts than this")
	rootCmd.AddCommand(cmd)
}

type compileResult struct {
	grmPath string
	cgram   *spec.CompiledGrammar
	report  *spec.Report
}

func runCompile(cmd *cobra.Command, args []string) error {
	switch *compileFlags.format {
	case formatJSON, formatBinary:
	default:
		return fmt.Errorf("unknown output format: %v", *compileFlags.format)
	}
	class, err := grammar.ParseClass(*compileFlags.class)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		fi, err := os.Stat(*compileFlags.output)
		if err != nil || !fi.IsDir() {
			return fmt.Errorf("compiling more than one grammar needs an existing output directory")
		}
	}

	opts := []grammar.CompileOption{
		grammar.SpecifyClass(class),
		grammar.EnableReporting(),
	}
	if *compileFlags.compress {
		opts = append(opts, grammar.Compress())
	}

	results := make([]*compileResult, len(args))
	eg, ctx := errgroup.WithContext(context.Background())
	for i, path := range args {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cgram, report, err := compileFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = &compileResult{
				grmPath: path,
				cgram:   cgram,
				report:  report,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var failed []string
	for _, r := range results {
		if err := writeCompiledGrammarAndReport(r.cgram, r.report, *compileFlags.output, *compileFlags.format); err != nil {
			return fmt.Errorf("Cannot write output files: %w", err)
		}
		if msg, ok := checkConflicts(r.report, *compileFlags.expectSR, *compileFlags.expectRR); !ok {
			failed = append(failed, fmt.Sprintf("%v: %v", r.grmPath, msg))
		} else if msg != "" {
			pterm.Warning.Println(fmt.Sprintf("%v: %v", r.grmPath, msg))
		}
	}
	if len(failed) > 0 {
		for _, msg := range failed[1:] {
			pterm.Error.Println(msg)
		}
		return fmt.Errorf("%v", failed[0])
	}

	return nil
}

func compileFile(path string, opts []grammar.CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	b, err := readGrammar(path)
	if err != nil {
		return nil, nil, err
	}
	b.SourceName = path
	gram, err := b.Build()
	if err != nil {
		return nil, nil, withFilePath(err, path)
	}
	return grammar.Compile(gram, opts...)
}

func readGrammar(path string) (*grammar.GrammarBuilder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	desc, err := tomlspec.Parse(f)
	if err != nil {
		return nil, withFilePath(err, path)
	}
	if desc.Name == "" {
		desc.Name = grammarNameFromPath(path)
	}
	b, err := grammar.NewGrammarBuilderFromDescription(desc)
	if err != nil {
		return nil, withFilePath(err, path)
	}
	return b, nil
}

// withFilePath lets spec errors print the offending line of the grammar file.
func withFilePath(err error, path string) error {
	specErrs, ok := err.(verr.SpecErrors)
	if !ok {
		return err
	}
	for _, e := range specErrs {
		e.FilePath = path
		e.SourceName = path
	}
	return specErrs
}

func grammarNameFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// checkConflicts returns a summary of conflicts, and false when the counts exceed the baselines. A
// negative baseline disables its check.
func checkConflicts(report *spec.Report, expectSR, expectRR int) (string, bool) {
	sr := report.SRConflictCount
	rr := report.RRConflictCount
	if sr == 0 && rr == 0 {
		return "", true
	}
	msg := fmt.Sprintf("%v shift/reduce and %v reduce/reduce conflicts", sr, rr)
	if expectSR >= 0 && sr > expectSR {
		return fmt.Sprintf("%v (expected at most %v shift/reduce)", msg, expectSR), false
	}
	if expectRR >= 0 && rr > expectRR {
		return fmt.Sprintf("%v (expected at most %v reduce/reduce)", msg, expectRR), false
	}
	return msg, true
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report to files located at a specified path.
// This function selects one of the following output methods depending on how the path is specified.
//
//  1. When the path is a directory path, this function writes the compiled grammar and the report to
//     <path>/<grammar-name>.<format> and <path>/<grammar-name>-report.json files, respectively.
//  2. When the path is a file path or a non-existent path, this function assumes that the path represents a file
//     path for the compiled grammar. Then it also writes the report in the same directory as the compiled grammar.
//  3. When the path is an empty string, this function writes the compiled grammar to the stdout and writes
//     the report to a file named <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *spec.CompiledGrammar, report *spec.Report, path string, format string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path, format)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		if err := writeCompiledGrammar(cgramW, cgram, format); err != nil {
			return err
		}
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(reportFile, "%v\n", string(b))
	}

	return nil
}

func writeCompiledGrammar(w io.Writer, cgram *spec.CompiledGrammar, format string) error {
	if format == formatBinary {
		b, err := cgram.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	b, err := json.Marshal(cgram)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func makeOutputFilePaths(gramName string, path string, format string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+"."+format), filepath.Join(path, reportFileName), nil
}
