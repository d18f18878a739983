package grammar

import (
	"testing"

	"github.com/nihei9/lalrgen/grammar/symbol"
)

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, gram *Grammar) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := gram.Symbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *Production

// newTestProductionGenerator returns productions registered in a grammar, so their numbers and
// fixities are the ones the grammar assigned.
func newTestProductionGenerator(t *testing.T, gram *Grammar) testProductionGenerator {
	genSym := newTestSymbolGenerator(t, gram)
	return func(lhs string, rhs ...string) *Production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, ok := gram.productionSet.findByID(genProductionID(genSym(lhs), rhsSym))
		if !ok {
			t.Fatalf("production was not found: %v → %v", lhs, rhs)
		}
		return prod
	}
}

type testItemGenerator func(lhs string, dot int, rhs ...string) *Item

func newTestItemGenerator(t *testing.T, genProd testProductionGenerator) testItemGenerator {
	return func(lhs string, dot int, rhs ...string) *Item {
		t.Helper()

		item, err := newItem(genProd(lhs, rhs...), dot)
		if err != nil {
			t.Fatalf("failed to create an item: %v", err)
		}
		return item
	}
}

func buildGrammar(t *testing.T, b *GrammarBuilder) *Grammar {
	t.Helper()

	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

func genTestMachine(t *testing.T, gram *Grammar, opts ...MachineOption) *LookaheadMachine {
	t.Helper()

	lr0, err := GenLR0Items(gram)
	if err != nil {
		t.Fatalf("failed to generate LR(0) items: %v", err)
	}
	m, err := GenLookaheadMachine(lr0, opts...)
	if err != nil {
		t.Fatalf("failed to compute look-ahead sets: %v", err)
	}
	return m
}

func genTestTables(t *testing.T, m *LookaheadMachine, resolver Resolver) *Tables {
	t.Helper()

	tab, err := GenTables(m, resolver)
	if err != nil {
		t.Fatalf("failed to generate tables: %v", err)
	}
	return tab
}

// stateOf follows transitions from the initial state.
func stateOf(t *testing.T, lr0 *LR0Items, path ...symbol.Symbol) *State {
	t.Helper()

	state := lr0.InitialState()
	for _, sym := range path {
		next, ok := state.Next(sym)
		if !ok {
			t.Fatalf("state %v has no transition on %v", state.Num(), sym)
		}
		state, _ = lr0.State(next)
	}
	return state
}

// exprGrammar is `E → E + E | E * E | id` with `+` left 1 and `*` left 2.
func exprGrammar() *GrammarBuilder {
	b := NewGrammarBuilder("expr")
	b.Terminal("id")
	b.Left("+")
	b.Left("*")
	b.Production("E", "E", "+", "E")
	b.Production("E", "E", "*", "E")
	b.Production("E", "id")
	return b
}

// pointerGrammar is the grammar of assignments that is LALR(1) but not SLR(1).
//
//	S → L = R | R
//	L → * R | id
//	R → L
func pointerGrammar() *GrammarBuilder {
	b := NewGrammarBuilder("pointer")
	b.Terminal("=", "*", "id")
	b.Production("S", "L", "=", "R")
	b.Production("S", "R")
	b.Production("L", "*", "R")
	b.Production("L", "id")
	b.Production("R", "L")
	return b
}

// arithGrammar is the unambiguous grammar of arithmetic expressions.
//
//	E → E + T | T
//	T → T * F | F
//	F → ( E ) | id
func arithGrammar() *GrammarBuilder {
	b := NewGrammarBuilder("arith")
	b.Terminal("+", "*", "(", ")", "id")
	b.Production("E", "E", "+", "T")
	b.Production("E", "T")
	b.Production("T", "T", "*", "F")
	b.Production("T", "F")
	b.Production("F", "(", "E", ")")
	b.Production("F", "id")
	return b
}

// optionalGrammar is `S → A B` where both A and B may be empty.
func optionalGrammar() *GrammarBuilder {
	b := NewGrammarBuilder("optional")
	b.Terminal("a", "b")
	b.Production("S", "A", "B")
	b.Production("A", "a")
	b.Production("A")
	b.Production("B", "b")
	b.Production("B")
	return b
}
