package grammar

import (
	"errors"
	"testing"

	verr "github.com/nihei9/lalrgen/error"
	"github.com/nihei9/lalrgen/grammar/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarBuilder_Build(t *testing.T) {
	gram := buildGrammar(t, exprGrammar())
	genSym := newTestSymbolGenerator(t, gram)
	genProd := newTestProductionGenerator(t, gram)

	assert.Equal(t, "expr", gram.Name())
	assert.Equal(t, genSym("E"), gram.StartSymbol())
	assert.Equal(t, genSym("E'"), gram.AugmentedStartSymbol())
	assert.True(t, gram.AugmentedStartSymbol().IsStart())

	assert.Equal(t, []symbol.Symbol{symbol.SymbolEOF, genSym("id"), genSym("+"), genSym("*")}, gram.Terminals())
	assert.Equal(t, []symbol.Symbol{genSym("E'"), genSym("E")}, gram.NonTerminals())
	assert.Equal(t, 5, gram.TerminalCount())
	assert.Equal(t, 3, gram.NonTerminalCount())

	prods := gram.Productions()
	require.Len(t, prods, 4)
	expected := []struct {
		num  int
		seq  int
		text string
	}{
		{num: 1, seq: 3, text: "E' → E"},
		{num: 2, seq: 0, text: "E → E + E"},
		{num: 3, seq: 1, text: "E → E * E"},
		{num: 4, seq: 2, text: "E → id"},
	}
	for i, e := range expected {
		assert.Equal(t, e.num, prods[i].Num())
		assert.Equal(t, e.seq, prods[i].Seq())
		assert.Equal(t, e.text, gram.ProductionText(prods[i]))
	}
	assert.True(t, prods[0].IsAugmented())

	p, ok := gram.ProductionByNum(3)
	require.True(t, ok)
	assert.Equal(t, genProd("E", "E", "*", "E"), p)
	_, ok = gram.ProductionByNum(0)
	assert.False(t, ok)
	_, ok = gram.ProductionByNum(5)
	assert.False(t, ok)
	assert.Len(t, gram.ProductionsByLHS(genSym("E")), 3)

	assert.Equal(t, &Fixity{prec: 1, assoc: AssocLeft}, gram.TerminalFixity(genSym("+")))
	assert.Equal(t, &Fixity{prec: 2, assoc: AssocLeft}, gram.TerminalFixity(genSym("*")))
	assert.Nil(t, gram.TerminalFixity(genSym("id")))

	assert.Equal(t, "id", gram.SymbolName(genSym("id")))
	assert.Equal(t, symbol.SymbolNameEOF, gram.SymbolName(symbol.SymbolEOF))
}

func TestGrammarBuilder_ProductionFixity(t *testing.T) {
	b := NewGrammarBuilder("fixity")
	b.Terminal("id")
	b.Left("+", "-")
	b.Left("*")
	b.Right("uminus")
	b.Production("E", "E", "+", "E")
	b.Production("E", "E", "*", "E")
	b.Production("E", "-", "E").WithPrecOf("uminus")
	b.Production("E", "E", "-", "E").WithFixity(NonAssoc(10))
	b.Production("E", "id", "+", "id", "*")
	b.Production("E", "id")
	gram := buildGrammar(t, b)
	genProd := newTestProductionGenerator(t, gram)

	tests := []struct {
		prod   *Production
		fixity *Fixity
	}{
		{prod: genProd("E", "E", "+", "E"), fixity: &Fixity{prec: 1, assoc: AssocLeft}},
		{prod: genProd("E", "E", "*", "E"), fixity: &Fixity{prec: 2, assoc: AssocLeft}},
		{prod: genProd("E", "-", "E"), fixity: &Fixity{prec: 3, assoc: AssocRight}},
		{prod: genProd("E", "E", "-", "E"), fixity: &Fixity{prec: 10, assoc: AssocNon}},
		{prod: genProd("E", "id", "+", "id", "*"), fixity: &Fixity{prec: 2, assoc: AssocLeft}},
		{prod: genProd("E", "id"), fixity: nil},
	}
	for _, tt := range tests {
		t.Run(gram.ProductionText(tt.prod), func(t *testing.T) {
			assert.Equal(t, tt.fixity, tt.prod.Fixity())
		})
	}

	assert.Nil(t, gram.TerminalFixity(symbol.SymbolEOF))
}

func TestGrammarBuilder_StartAndEmptyProduction(t *testing.T) {
	b := NewGrammarBuilder("start")
	b.Terminal("a")
	b.Production("opt", "a")
	b.Production("opt")
	b.Production("s", "opt", "a")
	b.Start("s")
	gram := buildGrammar(t, b)
	genSym := newTestSymbolGenerator(t, gram)
	genProd := newTestProductionGenerator(t, gram)

	assert.Equal(t, genSym("s"), gram.StartSymbol())
	assert.Equal(t, "s'", gram.SymbolName(gram.AugmentedStartSymbol()))
	assert.Equal(t, "opt → ε", gram.ProductionText(genProd("opt")))
	assert.Equal(t, 0, genProd("opt").Len())

	// Non-terminals are numbered in order of appearance, after the augmented start symbol.
	assert.Equal(t, []symbol.Symbol{genSym("s'"), genSym("opt"), genSym("s")}, gram.NonTerminals())
}

func TestGrammarBuilder_Errors(t *testing.T) {
	tests := []struct {
		caption string
		build   func() *GrammarBuilder
		cause   error
	}{
		{
			caption: "a grammar needs a name",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("")
				b.Terminal("a")
				b.Production("s", "a")
				return b
			},
			cause: semErrNoGrammarName,
		},
		{
			caption: "a grammar needs a production",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				return b
			},
			cause: semErrNoProduction,
		},
		{
			caption: "a RHS symbol must be declared",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Production("s", "a")
				return b
			},
			cause: semErrUndefinedSym,
		},
		{
			caption: "the start symbol must have a production",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s", "a")
				b.Start("x")
				return b
			},
			cause: semErrUndefinedStart,
		},
		{
			caption: "a terminal cannot be a LHS",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("a", "a")
				return b
			},
			cause: semErrTermAsLHS,
		},
		{
			caption: "a production must be reachable from the start symbol",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s", "a")
				b.Production("t", "a")
				return b
			},
			cause: semErrUnusedProduction,
		},
		{
			caption: "a non-terminal must derive a string of terminals",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s", "a")
				b.Production("s", "t")
				b.Production("t", "t", "a")
				return b
			},
			cause: semErrNonProductive,
		},
		{
			caption: "a production cannot be declared twice",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s", "a")
				b.Production("s", "a")
				return b
			},
			cause: semErrDuplicateProduction,
		},
		{
			caption: "a terminal cannot be declared twice",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a", "a")
				b.Production("s", "a")
				return b
			},
			cause: semErrDuplicateTerminal,
		},
		{
			caption: "a terminal can belong to only one precedence level",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Left("a")
				b.Right("a")
				b.Production("s", "a")
				return b
			},
			cause: semErrDuplicateFixity,
		},
		{
			caption: "a precedence symbol must be declared",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s", "a").WithPrecOf("b")
				return b
			},
			cause: semErrUndefinedPrecSym,
		},
		{
			caption: "a precedence symbol must have a precedence",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s", "a").WithPrecOf("a")
				return b
			},
			cause: semErrUndefinedPrecSym,
		},
		{
			caption: "the EOF name is reserved",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("<eof>")
				b.Production("s", "<eof>")
				return b
			},
			cause: semErrReservedName,
		},
		{
			caption: "a name ending with a quote is reserved",
			build: func() *GrammarBuilder {
				b := NewGrammarBuilder("test")
				b.Terminal("a")
				b.Production("s'", "a")
				return b
			},
			cause: semErrReservedName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			b := tt.build()
			b.SourceName = "test.toml"
			gram, err := b.Build()
			require.Error(t, err)
			assert.Nil(t, gram)

			var specErrs verr.SpecErrors
			require.True(t, errors.As(err, &specErrs))
			require.NotEmpty(t, specErrs)
			assert.ErrorIs(t, specErrs[0], tt.cause)
			assert.Equal(t, "test.toml", specErrs[0].SourceName)
		})
	}
}

func TestGrammarBuilder_ReportsAllErrors(t *testing.T) {
	b := NewGrammarBuilder("test")
	b.Terminal("a")
	b.Production("s", "x")
	b.Production("s", "y")
	_, err := b.Build()
	require.Error(t, err)

	var specErrs verr.SpecErrors
	require.True(t, errors.As(err, &specErrs))
	assert.Len(t, specErrs, 2)
	for _, e := range specErrs {
		assert.ErrorIs(t, e, semErrUndefinedSym)
	}
}

func TestGrammarBuilder_NonProductiveCycle(t *testing.T) {
	b := NewGrammarBuilder("test")
	b.Terminal("a", "b")
	b.Production("s", "c", "a")
	b.Production("s", "b")
	b.Production("c", "c", "s", "d")
	b.Production("c", "c", "e", "e")
	b.Production("d", "a")
	b.Production("e", "b")
	_, err := b.Build()
	require.Error(t, err)

	var specErrs verr.SpecErrors
	require.True(t, errors.As(err, &specErrs))
	require.Len(t, specErrs, 1)
	assert.ErrorIs(t, specErrs[0], semErrNonProductive)
	assert.Equal(t, "c", specErrs[0].Detail)
}
