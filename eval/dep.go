package eval

import (
	"errors"
	"fmt"
	"io"

	"treedep/nlp/types"
	"treedep/util"
)

// TOP_RELATION stands in for the missing relation of roots
const TOP_RELATION = "top"

var ErrLengthMismatch = errors.New("sentence lengths differ")

const (
	HEAD_ERROR       = "head"
	LABEL_ERROR      = "label"
	HEAD_LABEL_ERROR = "head+label"
)

// AttachmentError is a token whose head or relation differs from gold
type AttachmentError struct {
	ID                int
	Token             string
	Head, GoldHead    int
	Relation, GoldRel types.DepRel
}

var _ Error = &AttachmentError{}

func (e *AttachmentError) String() string {
	return fmt.Sprintf("%d:%s head %d (gold %d) relation %s (gold %s)",
		e.ID, e.Token, e.Head, e.GoldHead, e.Relation, e.GoldRel)
}

func (e *AttachmentError) Class() string {
	switch {
	case e.Head != e.GoldHead && e.Relation != e.GoldRel:
		return HEAD_LABEL_ERROR
	case e.Head != e.GoldHead:
		return HEAD_ERROR
	}
	return LABEL_ERROR
}

func attachment(f *types.Forest, id int) (int, types.DepRel) {
	head, exists := f.Head(id)
	if !exists {
		return 0, TOP_RELATION
	}
	rel, _ := f.Relation(id)
	return head, rel
}

// DepEval scores the attachments of test against gold. Every token counts
// once; correct tokens are TP, incorrect ones FP. The labeled result is
// returned, the unlabeled one is in its Other field.
func DepEval(test, gold *types.Forest) (*Result, error) {
	if test.NumberOfNodes() != gold.NumberOfNodes() {
		return nil, fmt.Errorf("%w: sentence %d has %d tokens, gold %d has %d",
			ErrLengthMismatch, test.ID, test.NumberOfNodes(), gold.ID, gold.NumberOfNodes())
	}
	labeled, unlabeled := &Result{}, &Result{}
	for _, id := range gold.Nodes() {
		head, rel := attachment(test, id)
		goldHead, goldRel := attachment(gold, id)
		if head == goldHead {
			unlabeled.TP++
		} else {
			unlabeled.FP++
		}
		if head == goldHead && rel == goldRel {
			labeled.TP++
			continue
		}
		labeled.FP++
		labeled.Errors = append(labeled.Errors, &AttachmentError{
			ID:       id,
			Token:    gold.Token(id).Token,
			Head:     head,
			GoldHead: goldHead,
			Relation: rel,
			GoldRel:  goldRel,
		})
	}
	labeled.Other = unlabeled
	return labeled, nil
}

// DepTotal accumulates DepEval results, including per relation accuracy
type DepTotal struct {
	Labeled, Unlabeled Total
	Relations          *util.EnumSet
	goldCounts         []int
	errorCounts        []int
}

func NewDepTotal() *DepTotal {
	return &DepTotal{
		Labeled:   Total{Results: make([]*Result, 0, 64)},
		Relations: util.NewEnumSet(64),
	}
}

func (d *DepTotal) relation(rel types.DepRel) int {
	i, _ := d.Relations.Add(rel)
	for len(d.goldCounts) <= i {
		d.goldCounts = append(d.goldCounts, 0)
		d.errorCounts = append(d.errorCounts, 0)
	}
	return i
}

// Add scores one sentence pair
func (d *DepTotal) Add(test, gold *types.Forest) (*Result, error) {
	result, err := DepEval(test, gold)
	if err != nil {
		return nil, err
	}
	d.Labeled.Add(result)
	d.Unlabeled.Add(result.Other.(*Result))
	for _, id := range gold.Nodes() {
		_, rel := attachment(gold, id)
		d.goldCounts[d.relation(rel)]++
	}
	for _, e := range result.Errors {
		d.errorCounts[d.relation(e.(*AttachmentError).GoldRel)]++
	}
	return result, nil
}

func (d *DepTotal) LAS() float64 {
	return d.Labeled.Accuracy()
}

func (d *DepTotal) UAS() float64 {
	return d.Unlabeled.Accuracy()
}

// RelationAccuracy returns the labeled accuracy of tokens with the given gold
// relation
func (d *DepTotal) RelationAccuracy(rel types.DepRel) (float64, bool) {
	i, exists := d.Relations.IndexOf(rel)
	if !exists || d.goldCounts[i] == 0 {
		return 0, false
	}
	return float64(d.goldCounts[i]-d.errorCounts[i]) / float64(d.goldCounts[i]), true
}

// TopErrors returns the n gold relations with most errors
func (d *DepTotal) TopErrors(n int) []util.TopNStrIntDatum {
	counts := make(map[string]int, len(d.errorCounts))
	for i, count := range d.errorCounts {
		if count > 0 {
			counts[string(d.Relations.ValueOf(i).(types.DepRel))] = count
		}
	}
	return util.GetTopNStrInt(counts, n)
}

func (d *DepTotal) Write(w io.Writer) {
	fmt.Fprintf(w, "Sentences:\t%d\n", d.Labeled.Population)
	fmt.Fprintf(w, "Tokens:\t%d\n", d.Labeled.All())
	fmt.Fprintf(w, "Labeled matches:\t%d\n", d.Labeled.TP)
	fmt.Fprintf(w, "Unlabeled matches:\t%d\n", d.Unlabeled.TP)
	fmt.Fprintf(w, "LAS:\t%6.2f\n", 100*d.LAS())
	fmt.Fprintf(w, "UAS:\t%6.2f\n", 100*d.UAS())
	fmt.Fprintf(w, "Labeled complete:\t%6.2f\n", 100*d.Labeled.ExactMatch())
	fmt.Fprintf(w, "Unlabeled complete:\t%6.2f\n", 100*d.Unlabeled.ExactMatch())
	for _, class := range util.GetTopNStrInt(d.Labeled.Errors().ByType(), 0) {
		fmt.Fprintf(w, "Errors %s:\t%d\n", class.S, class.N)
	}
}
