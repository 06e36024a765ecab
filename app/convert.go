package app

import (
	"bufio"
	"context"
	"log"
	"time"

	"treedep/nlp/parser/dependency"
	nlp "treedep/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"golang.org/x/sync/errgroup"
)

type ConvertStats struct {
	Sentences, Skipped int
}

// ConvertTrees converts trees with up to workers goroutines. A failing
// sentence aborts the batch unless skip is set; skipped sentences are logged
// and have a nil forest.
func ConvertTrees(ctx context.Context, conv dependency.DependencyConverter, trees []*nlp.Tree, workers int, skip bool) ([]*nlp.Forest, int, error) {
	forests := make([]*nlp.Forest, len(trees))
	failures := make([]error, len(trees))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, tree := range trees {
		i, tree := i, tree
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			forest, err := conv.Convert(tree)
			if err != nil {
				if skip {
					failures[i] = err
					return nil
				}
				return err
			}
			forests[i] = forest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	var skipped int
	for _, err := range failures {
		if err != nil {
			log.Println("Skipping", err)
			skipped++
		}
	}
	return forests, skipped, nil
}

// ConvertStream converts the trees of scanner batch by batch and hands the
// forests to emit in input order
func ConvertStream(ctx context.Context, scanner nlp.TreeScanner, conv dependency.DependencyConverter, p *Pipeline, emit func(*nlp.Forest) error) (ConvertStats, error) {
	var stats ConvertStats
	batch := make([]*nlp.Tree, 0, BATCH_SIZE)
	flush := func() error {
		forests, skipped, err := ConvertTrees(ctx, conv, batch, p.Workers, p.SkipErrors)
		if err != nil {
			return err
		}
		stats.Sentences += len(batch)
		stats.Skipped += skipped
		for _, forest := range forests {
			if forest == nil {
				continue
			}
			if err := emit(forest); err != nil {
				return err
			}
		}
		batch = batch[:0]
		return nil
	}
	for scanner.Scan() {
		batch = append(batch, scanner.Tree())
		if len(batch) == BATCH_SIZE {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func Convert(cmd *commander.Command, args []string) error {
	conv, err := setupPipeline(cmd)
	if err != nil {
		return err
	}
	write, err := WriterFor(outFormat)
	if err != nil {
		return err
	}
	if allOut {
		log.Printf("Output:\t\t\t%s (%s)", outConll, outFormat)
		log.Println()
	}
	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()
	scanner, err := OpenTrees(in, pipeline.InputFormat)
	if err != nil {
		return err
	}
	out, err := openOutput(outConll)
	if err != nil {
		return err
	}
	defer out.Close()
	writer := bufio.NewWriter(out)

	start := time.Now()
	stats, err := ConvertStream(context.Background(), scanner, conv, &pipeline, func(forest *nlp.Forest) error {
		return write(writer, forest)
	})
	if flushErr := writer.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Converted", stats.Sentences, "sentences in", time.Since(start))
		if stats.Skipped > 0 {
			log.Println("Skipped", stats.Skipped, "sentences")
		}
	}
	return nil
}

func ConvertCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Convert,
		UsageLine: "convert <file options> [arguments]",
		Short:     "converts a constituent treebank to CoNLL dependencies",
		Long: `
converts a constituent treebank to CoNLL dependencies

	$ ./treedep convert -in <treebank> -if export|bracket|discbracket -f <task-headfinder> -out <conll> [-of conll|conllu] [options]

`,
		Flag: *flag.NewFlagSet("convert", flag.ExitOnError),
	}
	PipelineFlags(cmd)
	cmd.Flag.StringVar(&outConll, "out", STDIO, "Output CoNLL file (- for stdout)")
	cmd.Flag.StringVar(&outFormat, "of", FORMAT_CONLL, "Output format: conll or conllu")
	return cmd
}
