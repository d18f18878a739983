package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	synErrInvalidTOML      = newSyntaxError("invalid TOML")
	synErrUnknownKey       = newSyntaxError("unknown key")
	synErrNoProductionName = newSyntaxError("a production needs an LHS")
	synErrNoAssoc          = newSyntaxError("a precedence entry needs an associativity")
	synErrNoPrecTerminal   = newSyntaxError("a precedence entry needs at least one terminal")
	synErrEmptySymbolName  = newSyntaxError("a symbol name must not be empty")
)
