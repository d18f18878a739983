package grammar

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/dekarrin/rosed"
	spec "github.com/nihei9/lalrgen/spec/grammar"
)

const descTemplate = `# {{ .Name }}

Class: {{ .Class }}

# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ printTerminals }}

# Productions

{{ printProductions }}

# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ if .Accept -}}
accept      on <eof>
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{- range .SRConflict }}
{{ printSRConflict . }}
{{- end }}
{{- range .RRConflict }}
{{ printRRConflict . }}
{{- end }}
{{ end }}`

// WriteDescription prints a report in a readable format.
func WriteDescription(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		if sym <= 0 || sym >= len(report.Terminals) || report.Terminals[sym] == nil {
			return fmt.Sprintf("<terminal %v>", sym)
		}
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		if sym <= 0 || sym >= len(report.NonTerminals) || report.NonTerminals[sym] == nil {
			return fmt.Sprintf("<non-terminal %v>", sym)
		}
		return report.NonTerminals[sym].Name
	}

	symbolName := func(e int) string {
		if e > 0 {
			return termName(e)
		}
		return nonTermName(e * -1)
	}

	fixity := func(prec int, assoc string) (string, string) {
		if prec == 0 {
			return "-", "-"
		}
		return strconv.Itoa(prec), assoc
	}

	table := func(data [][]string) string {
		return rosed.Edit("").
			InsertTableOpts(0, data, 100, rosed.Options{
				TableHeaders:             true,
				NoTrailingLineSeparators: true,
			}).
			String()
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			var b strings.Builder
			switch count := report.SRConflictCount + report.RRConflictCount; {
			case count == 1:
				fmt.Fprintf(&b, "1 conflict was detected.")
			case count > 1:
				fmt.Fprintf(&b, "%v conflicts were detected.", count)
			default:
				return "No conflict was detected."
			}
			fmt.Fprintf(&b, " (shift/reduce: %v, reduce/reduce: %v)", report.SRConflictCount, report.RRConflictCount)
			return b.String()
		},
		"printTerminals": func() string {
			data := [][]string{{"number", "prec", "assoc", "name"}}
			for _, term := range report.Terminals {
				if term == nil {
					continue
				}
				prec, assoc := fixity(term.Precedence, term.Associativity)
				data = append(data, []string{strconv.Itoa(term.Number), prec, assoc, term.Name})
			}
			return table(data)
		},
		"printProductions": func() string {
			data := [][]string{{"number", "prec", "assoc", "production"}}
			for _, prod := range report.Productions {
				if prod == nil {
					continue
				}
				var b strings.Builder
				fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
				if len(prod.RHS) > 0 {
					for _, e := range prod.RHS {
						fmt.Fprintf(&b, " %v", symbolName(e))
					}
				} else {
					fmt.Fprintf(&b, " ε")
				}
				prec, assoc := fixity(prod.Precedence, prod.Associativity)
				data = append(data, []string{strconv.Itoa(prod.Number), prec, assoc, b.String()})
			}
			return table(data)
		},
		"printItem": func(item *spec.Item) string {
			if item.Production <= 0 || item.Production >= len(report.Productions) || report.Productions[item.Production] == nil {
				return fmt.Sprintf("%4v <unknown production>", item.Production)
			}
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symbolName(e))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			names := make([]string, len(reduce.LookAhead))
			for i, a := range reduce.LookAhead {
				names[i] = termName(a)
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(names, ", "))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted", sr.State, sr.Production, termName(sr.Symbol), adopted)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
