// Package eval scores test output against gold annotation
package eval

// Error is a single mismatch; Class groups mismatches for reporting
type Error interface {
	String() string
	Class() string
}

type Errors []Error

// ByType counts errors per class
func (ers Errors) ByType() map[string]int {
	counts := make(map[string]int)
	for _, e := range ers {
		counts[e.Class()]++
	}
	return counts
}

// Result counts the scored items of one sentence: TP items match gold, FP
// items do not. Other carries a secondary score of the same sentence.
type Result struct {
	TP, FP int
	Errors Errors
	Other  interface{}
}

func (r *Result) All() int {
	return r.TP + r.FP
}

func (r *Result) Accuracy() float64 {
	if r.All() == 0 {
		return 0
	}
	return float64(r.TP) / float64(r.All())
}

// Total sums Results over a corpus. Per sentence results are kept only if
// Results is not nil.
type Total struct {
	Result
	Results           []*Result
	Exact, Population int
}

func (t *Total) Add(r *Result) {
	t.TP += r.TP
	t.FP += r.FP
	t.Population++
	if r.FP == 0 {
		t.Exact++
	}
	if t.Results != nil {
		t.Results = append(t.Results, r)
	}
}

// ExactMatch is the share of sentences without a single error
func (t *Total) ExactMatch() float64 {
	if t.Population == 0 {
		return 0
	}
	return float64(t.Exact) / float64(t.Population)
}

func (t *Total) Errors() Errors {
	var retval Errors
	for _, r := range t.Results {
		retval = append(retval, r.Errors...)
	}
	return retval
}
