package grammar

import (
	"testing"

	"github.com/nihei9/lalrgen/grammar/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLookaheadMachine_LALR1(t *testing.T) {
	gram := buildGrammar(t, pointerGrammar())
	genSym := newTestSymbolGenerator(t, gram)
	genItem := newTestItemGenerator(t, newTestProductionGenerator(t, gram))

	m := genTestMachine(t, gram)
	require.Equal(t, ClassLALR1, m.Class())
	require.Equal(t, 10, m.NumStates())

	tests := []struct {
		caption   string
		path      []string
		item      *Item
		lookAhead []symbol.Symbol
	}{
		{
			caption:   "the initial item",
			item:      genItem("S'", 0, "S"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF},
		},
		{
			caption:   "accepting item",
			path:      []string{"S"},
			item:      genItem("S'", 1, "S"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF},
		},
		{
			caption:   "R → L・ after L has only EOF",
			path:      []string{"L"},
			item:      genItem("R", 1, "L"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF},
		},
		{
			caption:   "S → L・= R",
			path:      []string{"L"},
			item:      genItem("S", 1, "L", "=", "R"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF},
		},
		{
			caption:   "R → L・ after * L inherits = by propagation",
			path:      []string{"*", "L"},
			item:      genItem("R", 1, "L"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF, genSym("=")},
		},
		{
			caption:   "L → id・",
			path:      []string{"id"},
			item:      genItem("L", 1, "id"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF, genSym("=")},
		},
		{
			caption:   "R → L・ after L = L shares the state after * L",
			path:      []string{"L", "=", "L"},
			item:      genItem("R", 1, "L"),
			lookAhead: []symbol.Symbol{symbol.SymbolEOF, genSym("=")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var path []symbol.Symbol
			for _, name := range tt.path {
				path = append(path, genSym(name))
			}
			state := stateOf(t, m.LR0Items(), path...)
			assert.Equal(t, tt.lookAhead, m.LookAheadAt(state.Num(), tt.item))
		})
	}

	// Closure items other than ε-items have no look-ahead sets.
	assert.Nil(t, m.LookAheadAt(0, genItem("L", 0, "id")))
	assert.Nil(t, m.LookAheadAt(m.NumStates(), genItem("S'", 0, "S")))
}

func TestGenLookaheadMachine_EmptyProduction(t *testing.T) {
	gram := buildGrammar(t, optionalGrammar())
	genSym := newTestSymbolGenerator(t, gram)
	genItem := newTestItemGenerator(t, newTestProductionGenerator(t, gram))

	m := genTestMachine(t, gram)

	// A → ・ is followed by FIRST(B) and, as B may be empty, by EOF.
	assert.Equal(t, []symbol.Symbol{symbol.SymbolEOF, genSym("b")}, m.LookAheadAt(0, genItem("A", 0)))

	afterA := stateOf(t, m.LR0Items(), genSym("A"))
	assert.Equal(t, []symbol.Symbol{symbol.SymbolEOF}, m.LookAheadAt(afterA.Num(), genItem("B", 0)))
	assertItems(t, gram, []*Item{genItem("B", 0)}, m.ReduceItemsAt(afterA.Num()))
	assert.Len(t, m.ItemsAt(afterA.Num()), 3)
}

func TestGenLookaheadMachine_SLR1(t *testing.T) {
	gram := buildGrammar(t, pointerGrammar())
	genSym := newTestSymbolGenerator(t, gram)
	genItem := newTestItemGenerator(t, newTestProductionGenerator(t, gram))

	m := genTestMachine(t, gram, WithClass(ClassSLR1))
	require.Equal(t, ClassSLR1, m.Class())
	require.Equal(t, 10, m.NumStates())

	// FOLLOW(R) contains = because of S → L = R and R → L.
	afterL := stateOf(t, m.LR0Items(), genSym("L"))
	assert.Equal(t, []symbol.Symbol{symbol.SymbolEOF, genSym("=")}, m.LookAheadAt(afterL.Num(), genItem("R", 1, "L")))
}

func TestLALR1IsStricterThanSLR1(t *testing.T) {
	gram := buildGrammar(t, pointerGrammar())

	lalr := genTestTables(t, genTestMachine(t, gram), NewCountingResolver())
	assert.Equal(t, 0, lalr.NumSRConflicts())
	assert.Equal(t, 0, lalr.NumRRConflicts())

	slr := genTestTables(t, genTestMachine(t, gram, WithClass(ClassSLR1)), NewCountingResolver())
	assert.Equal(t, 1, slr.NumSRConflicts())
	assert.Equal(t, 0, slr.NumRRConflicts())

	assert.Equal(t, lalr.NumStates(), slr.NumStates())
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass("lalr1")
	require.NoError(t, err)
	assert.Equal(t, ClassLALR1, c)

	c, err = ParseClass("slr1")
	require.NoError(t, err)
	assert.Equal(t, ClassSLR1, c)

	_, err = ParseClass("lr1")
	assert.Error(t, err)
}
