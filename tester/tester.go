// Package tester runs test cases against a compiled grammar.
//
// A test case file is TOML holding one or more cases. A case gives a sequence of terminal names
// and either the expected tree, printed the way driver.PrintTree prints it, or the expectation
// of a syntax error.
//
//	[[case]]
//	description = "multiplication binds tighter"
//	source = "id add id mul id"
//	tree = '''
//	expr
//	├─ expr
//	│  └─ id "id"
//	...
//	'''
//
//	[[case]]
//	description = "a dangling operator"
//	source = "id add"
//	syntax_error = true
package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nihei9/lalrgen/driver"
	gspec "github.com/nihei9/lalrgen/spec/grammar"
)

type LineDiff struct {
	Line     int
	Expected string
	Actual   string
}

type TestResult struct {
	TestCasePath string
	Description  string
	Error        error
	Diffs        []*LineDiff
}

func (r *TestResult) String() string {
	name := r.TestCasePath
	if r.Description != "" {
		name = fmt.Sprintf("%v (%v)", r.TestCasePath, r.Description)
	}
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", name, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, fmt.Sprintf("line %v:", diff.Line))
			diffLines = append(diffLines, fmt.Sprintf("%vexpected: %v", indent1, diff.Expected))
			diffLines = append(diffLines, fmt.Sprintf("%vactual:   %v", indent1, diff.Actual))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", name)
}

type TestCase struct {
	Description string `toml:"description"`
	Source      string `toml:"source"`
	Tree        string `toml:"tree"`
	SyntaxError bool   `toml:"syntax_error"`
}

type testCaseFile struct {
	Cases []*TestCase `toml:"case"`
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file, or every .toml file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		cs, err := parseTestCases(testPath)
		if err != nil {
			return []*TestCaseWithMetadata{
				{
					FilePath: testPath,
					Error:    err,
				},
			}
		}
		cases := make([]*TestCaseWithMetadata, len(cs))
		for i, c := range cs {
			cases[i] = &TestCaseWithMetadata{
				TestCase: c,
				FilePath: testPath,
			}
		}
		return cases
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() && filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCases(testCasePath string) ([]*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := &testCaseFile{}
	md, err := toml.NewDecoder(f).Decode(file)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", keys)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("no test case")
	}
	for i, c := range file.Cases {
		if c.Tree == "" && !c.SyntaxError {
			return nil, fmt.Errorf("case #%v needs a tree or syntax_error = true", i+1)
		}
	}
	return file.Cases, nil
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Grammar, c))
	}
	return rs
}

func runTest(g *gspec.CompiledGrammar, c *TestCaseWithMetadata) *TestResult {
	result := &TestResult{
		TestCasePath: c.FilePath,
		Description:  c.TestCase.Description,
	}

	var p *driver.Parser
	var treeAct *driver.SyntaxTreeActionSet
	{
		gram, err := driver.NewGrammar(g)
		if err != nil {
			result.Error = err
			return result
		}
		toks := driver.NewTerminalStream(gram, strings.NewReader(c.TestCase.Source))
		treeAct = driver.NewSyntaxTreeActionSet(gram)
		p, err = driver.NewParser(toks, gram, driver.SemanticAction(treeAct))
		if err != nil {
			result.Error = err
			return result
		}
	}

	err := p.Parse()
	if err != nil {
		result.Error = err
		return result
	}

	synErrs := p.SyntaxErrors()
	if c.TestCase.SyntaxError {
		if len(synErrs) == 0 {
			result.Error = fmt.Errorf("the source was accepted but a syntax error was expected")
		}
		return result
	}
	if len(synErrs) > 0 {
		result.Error = fmt.Errorf("parse tree was not generated: syntax error occurred: %v", synErrs[0])
		return result
	}
	if treeAct.CST() == nil {
		// The parser always generates a parse tree when it accepts a source, so if there is no
		// parse tree, it is a bug. We also include a stack trace in the error message to be sure.
		result.Error = fmt.Errorf("parse tree was not generated: no syntax error:\n%v", string(debug.Stack()))
		return result
	}

	var b strings.Builder
	driver.PrintTree(&b, treeAct.CST())
	if diffs := diffLines(c.TestCase.Tree, b.String()); len(diffs) > 0 {
		result.Error = fmt.Errorf("output mismatch")
		result.Diffs = diffs
	}
	return result
}

// diffLines compares trees line by line ignoring surrounding blank lines and trailing white spaces.
func diffLines(expected, actual string) []*LineDiff {
	split := func(s string) []string {
		lines := strings.Split(strings.Trim(s, "\n"), "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight(l, " \t\r")
		}
		return lines
	}
	e := split(expected)
	a := split(actual)

	n := len(e)
	if len(a) > n {
		n = len(a)
	}
	var diffs []*LineDiff
	for i := 0; i < n; i++ {
		var el, al string
		if i < len(e) {
			el = e[i]
		}
		if i < len(a) {
			al = a[i]
		}
		if el != al {
			diffs = append(diffs, &LineDiff{
				Line:     i + 1,
				Expected: el,
				Actual:   al,
			})
		}
	}
	return diffs
}
