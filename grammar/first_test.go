package grammar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type first struct {
	lhs     string
	rhs     []string
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		builder func() *GrammarBuilder
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			builder: arithGrammar,
			first: []first{
				{lhs: "E'", rhs: []string{"E"}, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "E", rhs: []string{"E", "+", "T"}, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "E", rhs: []string{"E", "+", "T"}, dot: 1, symbols: []string{"+"}},
				{lhs: "E", rhs: []string{"E", "+", "T"}, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "E", rhs: []string{"E", "+", "T"}, dot: 3, symbols: []string{}, empty: true},
				{lhs: "T", rhs: []string{"T", "*", "F"}, dot: 1, symbols: []string{"*"}},
				{lhs: "F", rhs: []string{"(", "E", ")"}, dot: 0, symbols: []string{"("}},
				{lhs: "F", rhs: []string{"(", "E", ")"}, dot: 1, symbols: []string{"(", "id"}},
				{lhs: "F", rhs: []string{"(", "E", ")"}, dot: 2, symbols: []string{")"}},
				{lhs: "F", rhs: []string{"id"}, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "productions contain empty productions",
			builder: optionalGrammar,
			first: []first{
				{lhs: "S'", rhs: []string{"S"}, dot: 0, symbols: []string{"a", "b"}, empty: true},
				{lhs: "S", rhs: []string{"A", "B"}, dot: 0, symbols: []string{"a", "b"}, empty: true},
				{lhs: "S", rhs: []string{"A", "B"}, dot: 1, symbols: []string{"b"}, empty: true},
				{lhs: "A", rhs: []string{"a"}, dot: 0, symbols: []string{"a"}},
				{lhs: "A", rhs: []string{}, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "the start production is empty",
			builder: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Production("s")
				return b
			},
			first: []first{
				{lhs: "s'", rhs: []string{"s"}, dot: 0, symbols: []string{}, empty: true},
				{lhs: "s", rhs: []string{}, dot: 0, symbols: []string{}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildGrammar(t, tt.builder())
			genProd := newTestProductionGenerator(t, gram)

			fst, err := genFirstSet(gram.productionSet)
			require.NoError(t, err)

			for _, f := range tt.first {
				t.Run(fmt.Sprintf("%v → %v (%v)", f.lhs, f.rhs, f.dot), func(t *testing.T) {
					e, err := fst.find(genProd(f.lhs, f.rhs...), f.dot)
					require.NoError(t, err)

					var actual []string
					for _, sym := range e.terminals() {
						actual = append(actual, gram.SymbolName(sym))
					}
					if len(f.symbols) == 0 {
						assert.Empty(t, actual)
					} else {
						assert.Equal(t, f.symbols, actual)
					}
					assert.Equal(t, f.empty, e.empty)
				})
			}
		})
	}
}
