package harness

import "fmt"

// checkExpectations records every way the attempts differ from the
// scenario's expectations, and from each other.
func checkExpectations(s *Scenario, r *Result) {
	for _, a := range r.Attempts {
		label := fmt.Sprintf("workers=%d", a.Workers)
		if a.Workers == 0 {
			label = "compile"
		}

		if s.Expect.Error != "" {
			if a.Error != s.Expect.Error {
				r.AddError(fmt.Sprintf("%s: expected error %s, got %s", label, s.Expect.Error, describe(a)))
			}
			continue
		}

		if a.Error != "" {
			r.AddError(fmt.Sprintf("%s: expected result %s, got error %s", label, s.Expect.Result, a.Error))
			continue
		}
		if a.Result != s.Expect.Result {
			r.AddError(fmt.Sprintf("%s: expected result %s, got %s", label, s.Expect.Result, a.Result))
		}
		if want := s.Expect.Interactions; want != nil && a.Interactions != *want {
			r.AddError(fmt.Sprintf("%s: expected %d interactions, got %d", label, *want, a.Interactions))
		}
	}

	checkConfluence(r)
}

// checkConfluence requires every successful attempt to agree on result
// and interaction count.
func checkConfluence(r *Result) {
	var first *Attempt
	for i := range r.Attempts {
		a := &r.Attempts[i]
		if a.Error != "" {
			continue
		}
		if first == nil {
			first = a
			continue
		}
		if a.Result != first.Result || a.Interactions != first.Interactions {
			r.AddError(fmt.Sprintf(
				"workers=%d and workers=%d disagree: %s (%d interactions) vs %s (%d interactions)",
				first.Workers, a.Workers, first.Result, first.Interactions, a.Result, a.Interactions,
			))
		}
	}
}

func describe(a Attempt) string {
	if a.Error != "" {
		return a.Error
	}
	return "result " + a.Result
}
