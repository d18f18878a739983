package driver

import (
	"strings"
	"testing"

	"github.com/nihei9/lalrgen/grammar"
	spec "github.com/nihei9/lalrgen/spec/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termNode(kind string) *Node {
	return &Node{
		KindName: kind,
		Text:     kind,
	}
}

func nonTermNode(kind string, children ...*Node) *Node {
	return &Node{
		KindName: kind,
		Children: children,
	}
}

func compileArith(t *testing.T, opts ...grammar.CompileOption) *spec.CompiledGrammar {
	t.Helper()

	b := grammar.NewGrammarBuilder("arith")
	b.Terminal("+", "*", "(", ")", "id")
	b.Production("E", "E", "+", "T")
	b.Production("E", "T")
	b.Production("T", "T", "*", "F")
	b.Production("T", "F")
	b.Production("F", "(", "E", ")")
	b.Production("F", "id")
	gram, err := b.Build()
	require.NoError(t, err)

	cgram, _, err := grammar.Compile(gram, opts...)
	require.NoError(t, err)
	return cgram
}

func TestParser_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.driver")
	defer teardown()

	tests := []struct {
		caption string
		opts    []grammar.CompileOption
	}{
		{caption: "flat tables"},
		{caption: "compressed tables", opts: []grammar.CompileOption{grammar.Compress()}},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram, err := NewGrammar(compileArith(t, tt.opts...))
			require.NoError(t, err)

			treeAct := NewSyntaxTreeActionSet(gram)
			p, err := NewParser(NewTerminalStream(gram, strings.NewReader("( id + id ) * id")), gram, SemanticAction(treeAct))
			require.NoError(t, err)
			require.NoError(t, p.Parse())
			require.Empty(t, p.SyntaxErrors())

			expected := nonTermNode("E",
				nonTermNode("T",
					nonTermNode("T",
						nonTermNode("F",
							termNode("("),
							nonTermNode("E",
								nonTermNode("E",
									nonTermNode("T",
										nonTermNode("F",
											termNode("id"),
										),
									),
								),
								termNode("+"),
								nonTermNode("T",
									nonTermNode("F",
										termNode("id"),
									),
								),
							),
							termNode(")"),
						),
					),
					termNode("*"),
					nonTermNode("F",
						termNode("id"),
					),
				),
			)
			testTree(t, treeAct.CST(), expected)
		})
	}
}

func testTree(t *testing.T, node, expected *Node) {
	t.Helper()

	require.NotNil(t, node)
	assert.Equal(t, expected.KindName, node.KindName)
	assert.Equal(t, expected.Text, node.Text)
	require.Len(t, node.Children, len(expected.Children), "children of %v", node.KindName)
	for i, c := range node.Children {
		testTree(t, c, expected.Children[i])
	}
}

func TestParser_SyntaxError(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		row      int
		col      int
		eof      bool
		invalid  bool
		expected []string
	}{
		{
			caption:  "an operator where an operand is expected",
			src:      "id + * id",
			col:      5,
			expected: []string{"(", "id"},
		},
		{
			caption:  "a name that is not a terminal",
			src:      "id\n+ x",
			row:      1,
			col:      2,
			invalid:  true,
			expected: []string{"(", "id"},
		},
		{
			caption:  "unexpected end of input",
			src:      "( id",
			col:      4,
			eof:      true,
			expected: []string{"+", ")"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram, err := NewGrammar(compileArith(t))
			require.NoError(t, err)

			treeAct := NewSyntaxTreeActionSet(gram)
			p, err := NewParser(NewTerminalStream(gram, strings.NewReader(tt.src)), gram, SemanticAction(treeAct))
			require.NoError(t, err)
			require.NoError(t, p.Parse())

			synErrs := p.SyntaxErrors()
			require.Len(t, synErrs, 1)
			synErr := synErrs[0]
			assert.Equal(t, tt.row, synErr.Row)
			assert.Equal(t, tt.col, synErr.Col)
			assert.Equal(t, tt.eof, synErr.Token.EOF())
			assert.Equal(t, tt.invalid, synErr.Token.Invalid())
			assert.Equal(t, tt.expected, synErr.ExpectedTerminals)
			assert.Nil(t, treeAct.CST())
		})
	}
}

func TestParser_WithoutSemanticAction(t *testing.T) {
	gram, err := NewGrammar(compileArith(t, grammar.Compress()))
	require.NoError(t, err)

	p, err := NewParser(NewTerminalStream(gram, strings.NewReader("id * ( id + id )")), gram)
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	assert.Empty(t, p.SyntaxErrors())
}

func TestNewGrammar(t *testing.T) {
	_, err := NewGrammar(&spec.CompiledGrammar{Name: "test"})
	assert.Error(t, err)
}

func TestPrintTree(t *testing.T) {
	tree := nonTermNode("E",
		nonTermNode("E",
			termNode("id"),
		),
		termNode("+"),
		nonTermNode("E",
			termNode("id"),
		),
	)

	var b strings.Builder
	PrintTree(&b, tree)
	assert.Equal(t, `E
├─ E
│  └─ id "id"
├─ + "+"
└─ E
   └─ id "id"
`, b.String())
}
