package error

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecError(t *testing.T) {
	cause := errors.New("undefined symbol")

	t.Run("message", func(t *testing.T) {
		err := &SpecError{
			Cause:      cause,
			Detail:     "foo",
			SourceName: "test.toml",
			Row:        3,
		}
		assert.Equal(t, "test.toml: 3: error: undefined symbol: foo", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("the source line is quoted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "grammar.toml")
		err := os.WriteFile(path, []byte("name = \"g\"\nstart = 1\n"), 0600)
		if err != nil {
			t.Fatal(err)
		}
		specErr := &SpecError{
			Cause:    cause,
			FilePath: path,
			Row:      2,
		}
		assert.Equal(t, "2: error: undefined symbol\n    start = 1", specErr.Error())
	})

	t.Run("errors are joined line by line", func(t *testing.T) {
		errs := SpecErrors{
			{Cause: cause, Detail: "a"},
			{Cause: cause, Detail: "b"},
		}
		assert.Equal(t, "error: undefined symbol: a\nerror: undefined symbol: b", errs.Error())
	})
}
