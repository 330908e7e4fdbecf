package pricing

import (
	"strconv"
	"strings"
)

// Dimension rules are the comparison expressions carried by the custom panel
// price list: ';'-joined clauses ANDed together (">34;<78"), or the literal
// "ALL" meaning no constraint. Both the primary and the relaxed evaluation
// share this one parser so the relaxation step is just a clause filter, not a
// second grammar.

// matchDimensionRule reports whether v satisfies every clause of rule.
// Malformed clauses fail the rule rather than being skipped.
func matchDimensionRule(rule string, v float64) bool {
	clauses, ok := ruleClauses(rule)
	if !ok {
		return true
	}
	for _, c := range clauses {
		if !matchClause(c, v) {
			return false
		}
	}
	return true
}

// matchRelaxedDimensionRule re-evaluates rule keeping only its upper-bound
// ("<", "<=") clauses. The custom price list has rows whose lower-bound clause
// excludes a boundary dimension the row was meant to cover; the legacy lookup
// recovered those by ignoring the lower bound on a second pass, and so do we.
func matchRelaxedDimensionRule(rule string, v float64) bool {
	clauses, ok := ruleClauses(rule)
	if !ok {
		return true
	}
	for _, c := range clauses {
		if !strings.HasPrefix(c, "<") {
			continue
		}
		if !matchClause(c, v) {
			return false
		}
	}
	return true
}

// ruleClauses splits rule into its clauses. ok is false when the rule is
// unconstrained ("ALL" or blank).
func ruleClauses(rule string) ([]string, bool) {
	rule = strings.TrimSpace(rule)
	if rule == "" || strings.EqualFold(rule, "ALL") {
		return nil, false
	}
	parts := strings.Split(rule, ";")
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses, true
}

func matchClause(clause string, v float64) bool {
	op := ""
	rest := clause
	for _, candidate := range []string{">=", "<=", ">", "<", "="} {
		if strings.HasPrefix(clause, candidate) {
			op = candidate
			rest = clause[len(candidate):]
			break
		}
	}

	bound, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return false
	}

	switch op {
	case ">":
		return v > bound
	case ">=":
		return v >= bound
	case "<":
		return v < bound
	case "<=":
		return v <= bound
	case "=", "":
		return v == bound
	}
	return false
}
