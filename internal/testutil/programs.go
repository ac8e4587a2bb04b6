package testutil

import "fmt"

// Program is a small source program with its known normal form.
type Program struct {
	Name         string
	Source       string
	Result       string
	Interactions uint64
}

// Programs covers every interaction rule at least once.
var Programs = []Program{
	{
		Name:         "number",
		Source:       "@main = 3",
		Result:       "3",
		Interactions: 0,
	},
	{
		Name:         "annihilate",
		Source:       "@main = a & (b b) ~ (7 a)",
		Result:       "7",
		Interactions: 1,
	},
	{
		Name:         "call",
		Source:       "@id = (x x)\n@main = a & @id ~ (7 a)",
		Result:       "7",
		Interactions: 2,
	},
	{
		Name:         "duplicate",
		Source:       "@main = a & 5 ~ {b c} & (b c) ~ a",
		Result:       "(5 5)",
		Interactions: 1,
	},
	{
		Name:         "commute",
		Source:       "@main = r & {x y} ~ (1 2) & (x y) ~ r",
		Result:       "((1 2) (1 2))",
		Interactions: 3,
	},
	{
		Name:         "safe_ref_copy",
		Source:       "@id = (x x)\n@main = r & @id ~ {a b} & (a b) ~ r",
		Result:       "(@id @id)",
		Interactions: 1,
	},
	{
		Name:         "unsafe_ref_expand",
		Source:       "@e = {* *}\n@main = r & @e ~ {a b} & (a b) ~ r",
		Result:       "(* *)",
		Interactions: 2,
	},
	{
		Name:         "multiply",
		Source:       "@main = a & 6 ~ $([*7] a)",
		Result:       "42",
		Interactions: 1,
	},
	{
		Name:         "subtract",
		Source:       "@main = a & 3 ~ $([-10] a)",
		Result:       "7",
		Interactions: 1,
	},
	{
		Name:         "partial",
		Source:       "@main = a & [*] ~ $(b a) & 6 ~ $(7 b)",
		Result:       "[*13]",
		Interactions: 3,
	},
	{
		Name:         "switch_zero",
		Source:       "@main = a & 0 ~ ?((10 (p p)) a)",
		Result:       "10",
		Interactions: 4,
	},
	{
		Name:         "switch_succ",
		Source:       "@main = a & 3 ~ ?((10 (p p)) a)",
		Result:       "2",
		Interactions: 4,
	},
}

// SumSource returns a program that computes 2^n by summing two recursive
// calls per level, which gives the scheduler plenty of parallel work.
func SumSource(n int) string {
	return fmt.Sprintf(`
@sum = (?((1 @sum_s) r) r)
@sum_s = ({p1 p2} r) & @sum ~ (p1 x) & @sum ~ (p2 y) & x ~ $(y r)
@main = r & @sum ~ (%d r)
`, n)
}

// SumInteractions is the interaction count of SumSource(n).
func SumInteractions(n int) uint64 {
	return 15<<n - 10
}
