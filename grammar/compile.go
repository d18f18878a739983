package grammar

import (
	"fmt"

	"github.com/nihei9/lalrgen/compressor"
	"github.com/nihei9/lalrgen/grammar/symbol"
	spec "github.com/nihei9/lalrgen/spec/grammar"
)

type compileConfig struct {
	class              Class
	newResolver        func(m *LookaheadMachine) Resolver
	conflictCap        int
	isReportingEnabled bool
	compress           bool
}

type CompileOption func(config *compileConfig)

// SpecifyClass selects LALR(1) or SLR(1) tables. The default is ClassLALR1.
func SpecifyClass(class Class) CompileOption {
	return func(config *compileConfig) {
		config.class = class
	}
}

// WithResolver replaces the PrecedenceResolver. ConflictCap has no effect on a resolver given this way.
func WithResolver(newResolver func(m *LookaheadMachine) Resolver) CompileOption {
	return func(config *compileConfig) {
		config.newResolver = newResolver
	}
}

// ConflictCap limits conflicts recorded per state. A negative value means no limit.
func ConflictCap(n int) CompileOption {
	return func(config *compileConfig) {
		config.conflictCap = n
	}
}

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compress emits the action and goto tables in compressed forms instead of flat ones.
func Compress() CompileOption {
	return func(config *compileConfig) {
		config.compress = true
	}
}

// Compile builds tables of a grammar and converts them into the portable form. The report is nil
// unless EnableReporting is given.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{
		class:       ClassLALR1,
		conflictCap: DefaultConflictCap,
	}
	for _, opt := range opts {
		opt(config)
	}

	tab, err := genTables(gram, config)
	if err != nil {
		return nil, nil, err
	}

	ptab, err := genParsingTable(tab, config.compress)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report, err = genReport(tab)
		if err != nil {
			return nil, nil, err
		}
	}

	return &spec.CompiledGrammar{
		Name:         gram.name,
		ParsingTable: ptab,
	}, report, nil
}

// genTables runs every stage from the LR(0) automaton to the tables.
func genTables(gram *Grammar, config *compileConfig) (*Tables, error) {
	lr0, err := GenLR0Items(gram)
	if err != nil {
		return nil, err
	}
	m, err := GenLookaheadMachine(lr0, WithClass(config.class))
	if err != nil {
		return nil, err
	}

	var resolver Resolver
	if config.newResolver != nil {
		resolver = config.newResolver(m)
	} else {
		resolver = NewPrecedenceResolver(m, RecordingCap(config.conflictCap))
	}

	return GenTables(m, resolver)
}

func genParsingTable(tab *Tables, compress bool) (*spec.ParsingTable, error) {
	gram := tab.machine.Grammar()
	action, goTo := tab.flatten()

	prods := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(prods)+1)
	altSymCounts := make([]int, len(prods)+1)
	for _, p := range prods {
		lhsSyms[p.num] = p.lhs.Num().Int()
		altSymCounts[p.num] = p.rhsLen
	}

	ptab := &spec.ParsingTable{
		Class:                   tab.machine.Class().String(),
		StateCount:              tab.NumStates(),
		InitialState:            tab.machine.LR0Items().InitialState().Num(),
		StartProduction:         productionNumStart.Int(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Terminals:               gram.symbolTable.TerminalTexts(),
		TerminalCount:           gram.TerminalCount(),
		NonTerminals:            gram.symbolTable.NonTerminalTexts(),
		NonTerminalCount:        gram.NonTerminalCount(),
		EOFSymbol:               symbol.SymbolEOF.Num().Int(),
	}

	if !compress {
		ptab.Action = action
		ptab.GoTo = goTo
		return ptab, nil
	}

	compAction, err := compressTable(action, gram.TerminalCount())
	if err != nil {
		return nil, fmt.Errorf("failed to compress the action table: %w", err)
	}
	compGoTo, err := compressTable(goTo, gram.NonTerminalCount())
	if err != nil {
		return nil, fmt.Errorf("failed to compress the goto table: %w", err)
	}
	ptab.CompressedAction = compAction
	ptab.CompressedGoTo = compGoTo

	tracer().Debugf("compressed tables: action %v → %v entries, goto %v → %v entries",
		len(action), len(compAction.UniqueEntries.Entries), len(goTo), len(compGoTo.UniqueEntries.Entries))

	return ptab, nil
}

func compressTable(entries []int, colCount int) (*spec.UniqueEntriesTable, error) {
	orig, err := compressor.NewOriginalTable(entries, colCount)
	if err != nil {
		return nil, err
	}
	// 0 is the error action and the missing goto alike.
	tab := compressor.NewUniqueEntriesTable(0)
	if err := tab.Compress(orig); err != nil {
		return nil, err
	}
	return tab.Spec(), nil
}
