package spec

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/lalrgen/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `
name  = "expr"
start = "expr"
terminals = ["id"]

[[precedence]]
assoc = "left"
terminals = ["add", "sub"]

[[precedence]]
assoc = "right"
terminals = ["uminus"]

[[production]]
lhs = "expr"
rhs = ["expr", "add", "expr"]

[[production]]
lhs = "expr"
rhs = ["sub", "expr"]
prec = "uminus"

[[production]]
lhs = "expr"
rhs = ["id"]

[[production]]
lhs = "opt"
`
	desc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, &Description{
		Name:      "expr",
		Start:     "expr",
		Terminals: []string{"id"},
		Precedence: []*PrecedenceEntry{
			{Assoc: "left", Terminals: []string{"add", "sub"}},
			{Assoc: "right", Terminals: []string{"uminus"}},
		},
		Productions: []*ProductionEntry{
			{LHS: "expr", RHS: []string{"expr", "add", "expr"}},
			{LHS: "expr", RHS: []string{"sub", "expr"}, Prec: "uminus"},
			{LHS: "expr", RHS: []string{"id"}},
			{LHS: "opt"},
		},
	}, desc)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
		hasRow  bool
	}{
		{
			caption: "a broken TOML document",
			src: `name = "a"
terminals = [
`,
			cause:  synErrInvalidTOML,
			hasRow: true,
		},
		{
			caption: "an unknown key",
			src: `name = "a"
termnals = ["x"]
`,
			cause: synErrUnknownKey,
		},
		{
			caption: "a production without an LHS",
			src: `name = "a"

[[production]]
rhs = ["x"]
`,
			cause: synErrNoProductionName,
		},
		{
			caption: "a precedence entry without an associativity",
			src: `name = "a"

[[precedence]]
terminals = ["x"]
`,
			cause: synErrNoAssoc,
		},
		{
			caption: "a precedence entry without terminals",
			src: `name = "a"

[[precedence]]
assoc = "left"
`,
			cause: synErrNoPrecTerminal,
		},
		{
			caption: "an empty symbol name",
			src: `name = "a"

[[production]]
lhs = "s"
rhs = [""]
`,
			cause: synErrEmptySymbolName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)

			var specErrs verr.SpecErrors
			require.True(t, errors.As(err, &specErrs))
			require.NotEmpty(t, specErrs)
			assert.ErrorIs(t, specErrs[0], tt.cause)
			if tt.hasRow {
				assert.Greater(t, specErrs[0].Row, 0)
			}
		})
	}
}
