package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoGrammarName       = newSemanticError("a grammar needs a name")
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrUndefinedStart      = newSemanticError("the start symbol has no production")
	semErrTermAsLHS           = newSemanticError("a terminal cannot be the LHS of a production")
	semErrUnusedProduction    = newSemanticError("unused production")
	semErrNonProductive       = newSemanticError("a non-terminal derives no string of terminals")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateFixity     = newSemanticError("a terminal can have only one precedence")
	semErrUndefinedPrecSym    = newSemanticError("the precedence symbol must be a terminal having precedence")
	semErrInvalidAssoc        = newSemanticError("invalid associativity")
	semErrReservedName        = newSemanticError("reserved symbol name")
)
