package grammar

import (
	"fmt"
	"strings"

	verr "github.com/nihei9/lalrgen/error"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

const precMin = 1

// Grammar is a set of productions over a symbol table. It is read-only once GrammarBuilder.Build returns it.
type Grammar struct {
	name                 string
	symbolTable          *symbol.SymbolTableReader
	productionSet        *productionSet
	startSymbol          symbol.Symbol
	augmentedStartSymbol symbol.Symbol

	// termFixity holds fixities of terminal symbols having a precedence declaration.
	termFixity map[symbol.Symbol]Fixity
}

func (g *Grammar) Name() string {
	return g.name
}

// StartSymbol returns the start symbol a user declared.
func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.startSymbol
}

// AugmentedStartSymbol returns S' of the augmented start production `S' → S`.
func (g *Grammar) AugmentedStartSymbol() symbol.Symbol {
	return g.augmentedStartSymbol
}

// Productions returns all productions, the augmented one included, in ascending order of their numbers.
func (g *Grammar) Productions() []*Production {
	return g.productionSet.getAllProductions()
}

func (g *Grammar) ProductionByNum(num int) (*Production, bool) {
	if num < 0 || num > int(^productionNum(0)) {
		return nil, false
	}
	return g.productionSet.findByNum(productionNum(num))
}

func (g *Grammar) ProductionsByLHS(lhs symbol.Symbol) []*Production {
	prods, _ := g.productionSet.findByLHS(lhs)
	return append([]*Production{}, prods...)
}

// Terminals returns all terminals, EOF included, in ascending order.
func (g *Grammar) Terminals() []symbol.Symbol {
	return g.symbolTable.TerminalSymbols()
}

// NonTerminals returns all non-terminals, the augmented start symbol included, in ascending order.
func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.symbolTable.NonTerminalSymbols()
}

func (g *Grammar) SymbolName(sym symbol.Symbol) string {
	text, ok := g.symbolTable.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

func (g *Grammar) Symbol(name string) (symbol.Symbol, bool) {
	return g.symbolTable.ToSymbol(name)
}

// TerminalFixity returns a copy of the fixity of a terminal, or nil when the terminal has none.
func (g *Grammar) TerminalFixity(sym symbol.Symbol) *Fixity {
	f, ok := g.termFixity[sym]
	if !ok {
		return nil
	}
	return &f
}

// TerminalCount returns the width of an action row. Column 0 belongs to the nil symbol.
func (g *Grammar) TerminalCount() int {
	return g.symbolTable.TerminalCount()
}

// NonTerminalCount returns the width of a goto row. Column 0 belongs to the nil symbol.
func (g *Grammar) NonTerminalCount() int {
	return g.symbolTable.NonTerminalCount()
}

// ProductionText formats a production like `expr → expr add expr`.
func (g *Grammar) ProductionText(prod *Production) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", g.SymbolName(prod.lhs))
	if prod.isEmpty() {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range prod.rhs {
		fmt.Fprintf(&b, " %v", g.SymbolName(sym))
	}
	return b.String()
}

// ProductionDecl is a production declared to a GrammarBuilder.
type ProductionDecl struct {
	lhs    string
	rhs    []string
	fixity *Fixity
	precOf string
}

// WithFixity overrides the fixity the production would inherit from its RHS.
func (d *ProductionDecl) WithFixity(f Fixity) *ProductionDecl {
	d.fixity = &f
	d.precOf = ""
	return d
}

// WithPrecOf makes the production take the fixity of a terminal.
func (d *ProductionDecl) WithPrecOf(term string) *ProductionDecl {
	d.precOf = term
	d.fixity = nil
	return d
}

func (d *ProductionDecl) String() string {
	if len(d.rhs) == 0 {
		return fmt.Sprintf("%v → ε", d.lhs)
	}
	return fmt.Sprintf("%v → %v", d.lhs, strings.Join(d.rhs, " "))
}

type GrammarBuilder struct {
	// SourceName is attached to errors Build returns. It is usually a file name.
	SourceName string

	name     string
	start    string
	terms    []string
	termDecl map[string]bool
	fixities map[string]Fixity
	prec     int
	prods    []*ProductionDecl
	errs     verr.SpecErrors
}

func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:     name,
		termDecl: map[string]bool{},
		fixities: map[string]Fixity{},
		prec:     precMin,
	}
}

// Terminal declares terminals without precedence.
func (b *GrammarBuilder) Terminal(names ...string) *GrammarBuilder {
	for _, name := range names {
		if b.termDecl[name] {
			b.addError(semErrDuplicateTerminal, name)
			continue
		}
		b.termDecl[name] = true
		b.appendTerminal(name)
	}
	return b
}

// Left declares left-associative terminals. Each of Left, Right, and NonAssoc opens a new precedence
// level higher than the previous one.
func (b *GrammarBuilder) Left(names ...string) *GrammarBuilder {
	return b.declareFixity(AssocLeft, names)
}

func (b *GrammarBuilder) Right(names ...string) *GrammarBuilder {
	return b.declareFixity(AssocRight, names)
}

func (b *GrammarBuilder) NonAssoc(names ...string) *GrammarBuilder {
	return b.declareFixity(AssocNon, names)
}

func (b *GrammarBuilder) declareFixity(assoc Assoc, names []string) *GrammarBuilder {
	f := NewFixity(b.prec, assoc)
	b.prec++
	for _, name := range names {
		if _, ok := b.fixities[name]; ok {
			b.addError(semErrDuplicateFixity, name)
			continue
		}
		b.fixities[name] = f
		b.appendTerminal(name)
	}
	return b
}

func (b *GrammarBuilder) appendTerminal(name string) {
	for _, t := range b.terms {
		if t == name {
			return
		}
	}
	b.terms = append(b.terms, name)
}

// Start sets the start symbol. Without it, the LHS of the first production is the start symbol.
func (b *GrammarBuilder) Start(name string) *GrammarBuilder {
	b.start = name
	return b
}

// Production declares `lhs → rhs`. An empty rhs declares an ε-production.
func (b *GrammarBuilder) Production(lhs string, rhs ...string) *ProductionDecl {
	d := &ProductionDecl{
		lhs: lhs,
		rhs: append([]string{}, rhs...),
	}
	b.prods = append(b.prods, d)
	return d
}

func (b *GrammarBuilder) addError(cause error, detail string) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:      cause,
		Detail:     detail,
		SourceName: b.SourceName,
	})
}

// specErrors stamps SourceName on errors found before it was set.
func (b *GrammarBuilder) specErrors() verr.SpecErrors {
	for _, e := range b.errs {
		if e.SourceName == "" {
			e.SourceName = b.SourceName
		}
	}
	return b.errs
}

// Build validates the declarations and returns a Grammar. All defects found are returned together
// as verr.SpecErrors.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.name == "" {
		b.addError(semErrNoGrammarName, "")
	}
	if len(b.prods) == 0 {
		b.addError(semErrNoProduction, "")
		return nil, b.specErrors()
	}

	b.checkReservedNames()

	nonTerms, ok := b.collectNonTerminals()
	if !ok {
		return nil, b.specErrors()
	}

	start := b.start
	if start == "" {
		start = b.prods[0].lhs
	}
	if !nonTerms.has(start) {
		b.addError(semErrUndefinedStart, start)
		return nil, b.specErrors()
	}
	if len(b.errs) > 0 {
		return nil, b.specErrors()
	}

	symTab, err := b.genSymbolTable(start, nonTerms)
	if err != nil {
		return nil, err
	}
	r := symTab.Reader()

	termFixity := map[symbol.Symbol]Fixity{}
	for name, f := range b.fixities {
		sym, _ := r.ToSymbol(name)
		termFixity[sym] = f
	}

	prods := newProductionSet()
	startSym, _ := r.ToSymbol(start)
	augStartSym, _ := r.ToSymbol(symbol.AugmentedName(start))
	for i, d := range b.prods {
		lhs, _ := r.ToSymbol(d.lhs)
		rhs := make([]symbol.Symbol, 0, len(d.rhs))
		defined := true
		for _, name := range d.rhs {
			sym, ok := r.ToSymbol(name)
			if !ok {
				b.addError(semErrUndefinedSym, fmt.Sprintf("%v in %v", name, d))
				defined = false
				continue
			}
			rhs = append(rhs, sym)
		}
		if !defined {
			continue
		}

		p, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		p.seq = i
		p.fixity, ok = b.productionFixity(d, p, termFixity, r)
		if !ok {
			continue
		}
		if !prods.append(p) {
			b.addError(semErrDuplicateProduction, d.String())
		}
	}
	if len(b.errs) > 0 {
		return nil, b.specErrors()
	}

	{
		p, err := newProduction(augStartSym, []symbol.Symbol{startSym})
		if err != nil {
			return nil, err
		}
		p.seq = len(b.prods)
		prods.append(p)
	}

	b.checkReachability(prods, augStartSym, r)
	if len(b.errs) > 0 {
		return nil, b.specErrors()
	}
	b.checkProductivity(prods, r)
	if len(b.errs) > 0 {
		return nil, b.specErrors()
	}

	tracer().Debugf("grammar %v: %v terminals, %v non-terminals, %v productions",
		b.name, r.TerminalCount()-1, r.NonTerminalCount()-1, len(b.prods)+1)

	return &Grammar{
		name:                 b.name,
		symbolTable:          r,
		productionSet:        prods,
		startSymbol:          startSym,
		augmentedStartSymbol: augStartSym,
		termFixity:           termFixity,
	}, nil
}

func (b *GrammarBuilder) checkReservedNames() {
	reported := map[string]bool{}
	check := func(name string) {
		if reported[name] || !symbol.IsReservedName(name) {
			return
		}
		reported[name] = true
		b.addError(semErrReservedName, name)
	}
	for _, name := range b.terms {
		check(name)
	}
	for _, d := range b.prods {
		check(d.lhs)
		for _, name := range d.rhs {
			check(name)
		}
	}
}

type nameSet struct {
	names []string
	set   map[string]bool
}

func (s *nameSet) add(name string) {
	if s.set[name] {
		return
	}
	s.set[name] = true
	s.names = append(s.names, name)
}

func (s *nameSet) has(name string) bool {
	return s.set[name]
}

// collectNonTerminals returns LHS names in order of first appearance.
func (b *GrammarBuilder) collectNonTerminals() (*nameSet, bool) {
	nonTerms := &nameSet{
		set: map[string]bool{},
	}
	ok := true
	for _, d := range b.prods {
		if b.isTerminal(d.lhs) {
			b.addError(semErrTermAsLHS, d.String())
			ok = false
			continue
		}
		nonTerms.add(d.lhs)
	}
	return nonTerms, ok
}

func (b *GrammarBuilder) isTerminal(name string) bool {
	if b.termDecl[name] {
		return true
	}
	_, ok := b.fixities[name]
	return ok
}

func (b *GrammarBuilder) genSymbolTable(start string, nonTerms *nameSet) (*symbol.SymbolTable, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	if _, err := w.RegisterStartSymbol(symbol.AugmentedName(start)); err != nil {
		return nil, err
	}
	for _, name := range nonTerms.names {
		if _, err := w.RegisterNonTerminalSymbol(name); err != nil {
			return nil, err
		}
	}
	for _, name := range b.terms {
		if _, err := w.RegisterTerminalSymbol(name); err != nil {
			return nil, err
		}
	}

	return symTab, nil
}

// productionFixity returns an explicit fixity, or the fixity of the rightmost terminal having one.
func (b *GrammarBuilder) productionFixity(d *ProductionDecl, p *Production, termFixity map[symbol.Symbol]Fixity, r *symbol.SymbolTableReader) (*Fixity, bool) {
	if d.fixity != nil {
		f := *d.fixity
		return &f, true
	}
	if d.precOf != "" {
		sym, ok := r.ToSymbol(d.precOf)
		if !ok || !sym.IsTerminal() {
			b.addError(semErrUndefinedPrecSym, fmt.Sprintf("%v in %v", d.precOf, d))
			return nil, false
		}
		f, ok := termFixity[sym]
		if !ok {
			b.addError(semErrUndefinedPrecSym, fmt.Sprintf("%v in %v", d.precOf, d))
			return nil, false
		}
		return &f, true
	}
	for i := len(p.rhs) - 1; i >= 0; i-- {
		if f, ok := termFixity[p.rhs[i]]; ok {
			return &f, true
		}
	}
	return nil, true
}

func (b *GrammarBuilder) checkReachability(prods *productionSet, start symbol.Symbol, r *symbol.SymbolTableReader) {
	reached := map[symbol.Symbol]bool{}
	var mark func(sym symbol.Symbol)
	mark = func(sym symbol.Symbol) {
		if reached[sym] {
			return
		}
		reached[sym] = true
		ps, _ := prods.findByLHS(sym)
		for _, p := range ps {
			for _, s := range p.rhs {
				if s.IsNonTerminal() {
					mark(s)
				}
			}
		}
	}
	mark(start)

	for _, sym := range r.NonTerminalSymbols() {
		if reached[sym] {
			continue
		}
		name, _ := r.ToText(sym)
		b.addError(semErrUnusedProduction, name)
	}

	for _, sym := range r.TerminalSymbols() {
		if sym.IsEOF() {
			continue
		}
		used := false
		for _, p := range prods.getAllProductions() {
			if !reached[p.lhs] {
				continue
			}
			for _, s := range p.rhs {
				if s == sym {
					used = true
					break
				}
			}
			if used {
				break
			}
		}
		if !used {
			name, _ := r.ToText(sym)
			tracer().Infof("terminal %v is declared but never used", name)
		}
	}
}

// checkProductivity reports non-terminals deriving no string of terminals, like `c → c a`. A
// non-terminal is productive when one of its productions has only terminals and productive
// non-terminals on its RHS.
func (b *GrammarBuilder) checkProductivity(prods *productionSet, r *symbol.SymbolTableReader) {
	productive := map[symbol.Symbol]bool{}
	for {
		changed := false
		for _, p := range prods.getAllProductions() {
			if productive[p.lhs] {
				continue
			}
			ok := true
			for _, sym := range p.rhs {
				if sym.IsNonTerminal() && !productive[sym] {
					ok = false
					break
				}
			}
			if ok {
				productive[p.lhs] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, sym := range r.NonTerminalSymbols() {
		if productive[sym] || sym.IsStart() {
			continue
		}
		name, _ := r.ToText(sym)
		b.addError(semErrNonProductive, name)
	}
}
