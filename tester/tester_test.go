package tester

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nihei9/lalrgen/grammar"
	gspec "github.com/nihei9/lalrgen/spec/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileExpr(t *testing.T) *gspec.CompiledGrammar {
	t.Helper()

	b := grammar.NewGrammarBuilder("expr")
	b.Terminal("id")
	b.Left("add")
	b.Left("mul")
	b.Production("expr", "expr", "add", "expr")
	b.Production("expr", "expr", "mul", "expr")
	b.Production("expr", "id")
	gram, err := b.Build()
	require.NoError(t, err)
	cgram, _, err := grammar.Compile(gram)
	require.NoError(t, err)
	return cgram
}

func TestTester_Run(t *testing.T) {
	tests := []struct {
		caption string
		testSrc string
		errors  []bool
		diffs   int
	}{
		{
			caption: "a matching tree passes",
			testSrc: `
[[case]]
description = "multiplication binds tighter"
source = "id add id mul id"
tree = '''
expr
├─ expr
│  └─ id "id"
├─ add "add"
└─ expr
   ├─ expr
   │  └─ id "id"
   ├─ mul "mul"
   └─ expr
      └─ id "id"
'''
`,
			errors: []bool{false},
		},
		{
			caption: "a different tree fails with diffs",
			testSrc: `
[[case]]
source = "id add id"
tree = '''
expr
├─ expr
│  └─ id "id"
├─ mul "mul"
└─ expr
   └─ id "id"
'''
`,
			errors: []bool{true},
			diffs:  1,
		},
		{
			caption: "expected and unexpected syntax errors",
			testSrc: `
[[case]]
source = "id add"
syntax_error = true

[[case]]
source = "id add id"
syntax_error = true

[[case]]
source = "id id"
tree = "expr"
`,
			errors: []bool{false, true, true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.testSrc), 0600))

			cs := ListTestCases(path)
			require.Len(t, cs, len(tt.errors))
			for _, c := range cs {
				require.NoError(t, c.Error)
			}

			tester := &Tester{
				Grammar: compileExpr(t),
				Cases:   cs,
			}
			rs := tester.Run()
			require.Len(t, rs, len(tt.errors))
			for i, r := range rs {
				t.Log(r)
				if tt.errors[i] {
					assert.Error(t, r.Error)
				} else {
					assert.NoError(t, r.Error)
				}
			}
			assert.Len(t, rs[0].Diffs, tt.diffs)
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"), []byte("[[case]]\nsource = \"id\"\ntree = \"expr\"\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a test"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.toml"), []byte("[[case]]\nsource = \"id\"\n"), 0600))

	cs := ListTestCases(dir)
	require.Len(t, cs, 2)
	assert.NoError(t, cs[0].Error)
	assert.Equal(t, filepath.Join(dir, "a.toml"), cs[0].FilePath)
	// A case without expectations is an error of the file.
	assert.Error(t, cs[1].Error)

	cs = ListTestCases(filepath.Join(dir, "missing.toml"))
	require.Len(t, cs, 1)
	assert.Error(t, cs[0].Error)
}
