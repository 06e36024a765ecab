package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"treedep/eval"
	nlp "treedep/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var topErrors int

func DepEvalConfigOut() {
	log.Println("Data")
	if inputParsed != "" {
		log.Printf("Parsed result file:\t%s", inputParsed)
	} else {
		log.Printf("Converted from:\t%s (%s, %s)", input, pipeline.InputFormat, pipeline.Format())
	}
	log.Printf("Gold file:\t\t%s", inputGold)
	log.Printf("File format:\t\t%s", outFormat)
	log.Println()
}

// testForests reads the CoNLL file given with -p, or converts the treebank
// given with -in
func testForests(cmd *commander.Command) ([]*nlp.Forest, error) {
	if inputParsed != "" {
		if !VerifyExists(inputParsed) {
			return nil, fmt.Errorf("parsed file %s not found", inputParsed)
		}
		return ReadForests(inputParsed, outFormat)
	}
	conv, err := setupPipeline(cmd)
	if err != nil {
		return nil, err
	}
	in, err := openInput(input)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	scanner, err := OpenTrees(in, pipeline.InputFormat)
	if err != nil {
		return nil, err
	}
	// skipped sentences would misalign test and gold
	p := pipeline
	p.SkipErrors = false
	var forests []*nlp.Forest
	_, err = ConvertStream(context.Background(), scanner, conv, &p, func(forest *nlp.Forest) error {
		forests = append(forests, forest)
		return nil
	})
	return forests, err
}

// EvaluateForests scores test against gold sentence by sentence; both must
// be in the same order
func EvaluateForests(test, gold []*nlp.Forest) (*eval.DepTotal, error) {
	if len(test) != len(gold) {
		return nil, fmt.Errorf("%w: %d test sentences, %d gold sentences", eval.ErrLengthMismatch, len(test), len(gold))
	}
	total := eval.NewDepTotal()
	for i := range test {
		if _, err := total.Add(test[i], gold[i]); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
	}
	return total, nil
}

func DepEval(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"g"}); err != nil {
		return err
	}
	if !VerifyExists(inputGold) {
		return fmt.Errorf("gold file %s not found", inputGold)
	}
	if allOut {
		DepEvalConfigOut()
	}
	test, err := testForests(cmd)
	if err != nil {
		return err
	}
	gold, err := ReadForests(inputGold, outFormat)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Read", len(test), "test and", len(gold), "gold sentences")
	}
	total, err := EvaluateForests(test, gold)
	if err != nil {
		return err
	}
	total.Write(os.Stdout)
	if topErrors > 0 {
		for _, rel := range total.TopErrors(topErrors) {
			acc, _ := total.RelationAccuracy(nlp.DepRel(rel.S))
			fmt.Printf("%s\t%d errors\t%6.2f\n", rel.S, rel.N, 100*acc)
		}
	}
	return nil
}

func DepEvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepEval,
		UsageLine: "depeval <file options> [arguments]",
		Short:     "evaluates dependencies against gold CoNLL",
		Long: `
evaluates dependencies against gold CoNLL, reading the test dependencies from
a CoNLL file or converting them from a constituent treebank

	$ ./treedep depeval -p <conll> -g <conll> [options]
	$ ./treedep depeval -in <treebank> -if <format> -f <task-headfinder> -g <conll> [options]

`,
		Flag: *flag.NewFlagSet("depeval", flag.ExitOnError),
	}
	PipelineFlags(cmd)
	cmd.Flag.StringVar(&inputParsed, "p", "", "Parse Result Conll File")
	cmd.Flag.StringVar(&inputGold, "g", "", "Gold Conll File")
	cmd.Flag.StringVar(&outFormat, "ef", FORMAT_CONLL, "Format of the parsed and gold files: conll or conllu")
	cmd.Flag.IntVar(&topErrors, "top", 0, "Print the relations with most errors")
	return cmd
}
