package driver

import (
	"fmt"

	spec "github.com/nihei9/lalrgen/spec/grammar"
)

// Grammar is the view of a compiled grammar a parser needs.
type Grammar interface {
	InitialState() int
	StartProduction() int

	// Action returns -state for shift, +production for reduce, and 0 for error.
	Action(state int, terminal int) (int, error)

	// GoTo returns 0 when the goto entry is empty.
	GoTo(state int, lhs int) (int, error)

	AlternativeSymbolCount(prod int) int
	TerminalCount() int
	LHS(prod int) int
	EOF() int
	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string
}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) (*grammarImpl, error) {
	if g == nil || g.ParsingTable == nil {
		return nil, fmt.Errorf("a compiled grammar needs a parsing table")
	}
	return &grammarImpl{
		g: g,
	}, nil
}

func (g *grammarImpl) InitialState() int {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.ParsingTable.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) (int, error) {
	return g.g.ParsingTable.ActionEntry(state, terminal)
}

func (g *grammarImpl) GoTo(state int, lhs int) (int, error) {
	return g.g.ParsingTable.GoToEntry(state, lhs)
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.ParsingTable.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.ParsingTable.TerminalCount
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.ParsingTable.LHSSymbols[prod]
}

func (g *grammarImpl) EOF() int {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.ParsingTable.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.ParsingTable.NonTerminals[nonTerminal]
}
