/*
Package grammar generates LALR(1) parsing tables.

A Grammar is built once with a GrammarBuilder and is read-only afterwards.
Table construction runs in three stages, each consuming the result of the
previous one:

	items, err := GenLR0Items(gram)              // canonical LR(0) collection
	machine, err := GenLookaheadMachine(items)   // LALR(1) look-ahead sets
	tab, err := GenTables(machine, NewPrecedenceResolver(machine))

Terminals and productions may carry a Fixity (precedence and associativity).
A Resolver decides every cell that has more than one candidate action. The
PrecedenceResolver uses fixities for shift/reduce conflicts and declaration
order for reduce/reduce conflicts; whatever it cannot decide is counted and
recorded, and the table is complete either way.

Compile chains the stages and emits the portable representation found in
package spec/grammar.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.grammar")
}
