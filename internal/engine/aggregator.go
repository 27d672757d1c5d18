package engine

// Verdict is the run-level summary derived from diagnostic severities.
type Verdict string

const (
	VerdictPass             Verdict = "pass"
	VerdictPassWithWarnings Verdict = "pass-with-warnings"
	VerdictFail             Verdict = "fail"
)

// AggregateResult holds the verdict and the diagnostics partitioned by
// severity.
type AggregateResult struct {
	Verdict  Verdict
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Aggregate partitions diagnostics and derives the verdict.
//
// Rules (applied in order):
//  1. If ANY diagnostic has severity error → fail
//  2. If ANY diagnostic has severity warning → pass-with-warnings
//  3. Otherwise → pass
//
// Diagnostics with an unrecognised severity count as warnings.
func Aggregate(diags []Diagnostic) AggregateResult {
	res := AggregateResult{
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
	for _, d := range diags {
		if d.Severity == SeverityError {
			res.Errors = append(res.Errors, d)
		} else {
			res.Warnings = append(res.Warnings, d)
		}
	}

	switch {
	case len(res.Errors) > 0:
		res.Verdict = VerdictFail
	case len(res.Warnings) > 0:
		res.Verdict = VerdictPassWithWarnings
	default:
		res.Verdict = VerdictPass
	}
	return res
}
