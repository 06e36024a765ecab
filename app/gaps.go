package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	nlp "treedep/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// GapStats summarizes the discontinuity of a treebank and of its conversion
type GapStats struct {
	Sentences     int
	TreeGaps      map[int]int
	ForestGaps    map[int]int
	IllNested     int
	MaxIllNested  int
	MaxEdgeDegree int
	NonProjective int
}

func NewGapStats() *GapStats {
	return &GapStats{TreeGaps: make(map[int]int), ForestGaps: make(map[int]int)}
}

func (g *GapStats) Add(tree *nlp.Tree, forest *nlp.Forest) {
	g.Sentences++
	g.TreeGaps[tree.GapDegree()]++
	gaps := forest.GapDegree()
	g.ForestGaps[gaps]++
	if gaps > 0 {
		g.NonProjective++
	}
	if d := forest.IllnestednessDegree(); d > 0 {
		g.IllNested++
		if d > g.MaxIllNested {
			g.MaxIllNested = d
		}
	}
	for _, id := range forest.Nodes() {
		if d := forest.EdgeDegree(id); d > g.MaxEdgeDegree {
			g.MaxEdgeDegree = d
		}
	}
}

func writeHistogram(w io.Writer, name string, hist map[int]int) {
	degrees := make([]int, 0, len(hist))
	for d := range hist {
		degrees = append(degrees, d)
	}
	sort.Ints(degrees)
	for _, d := range degrees {
		fmt.Fprintf(w, "%s gap degree %d:\t%d\n", name, d, hist[d])
	}
}

func (g *GapStats) Write(w io.Writer) {
	fmt.Fprintf(w, "Sentences:\t%d\n", g.Sentences)
	writeHistogram(w, "Tree", g.TreeGaps)
	writeHistogram(w, "Forest", g.ForestGaps)
	fmt.Fprintf(w, "Non-projective forests:\t%d\n", g.NonProjective)
	fmt.Fprintf(w, "Ill-nested forests:\t%d\n", g.IllNested)
	fmt.Fprintf(w, "Max ill-nestedness degree:\t%d\n", g.MaxIllNested)
	fmt.Fprintf(w, "Max edge degree:\t%d\n", g.MaxEdgeDegree)
}

func Gaps(cmd *commander.Command, args []string) error {
	conv, err := setupPipeline(cmd)
	if err != nil {
		return err
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
	stats := NewGapStats()
	ctx := context.Background()
	batch := make([]*nlp.Tree, 0, BATCH_SIZE)
	flush := func() error {
		forests, _, err := ConvertTrees(ctx, conv, batch, pipeline.Workers, pipeline.SkipErrors)
		if err != nil {
			return err
		}
		for i, forest := range forests {
			if forest != nil {
				stats.Add(batch[i], forest)
			}
		}
		batch = batch[:0]
		return nil
	}
	for scanner.Scan() {
		if batch = append(batch, scanner.Tree()); len(batch) == BATCH_SIZE {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	stats.Write(os.Stdout)
	return nil
}

func GapsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Gaps,
		UsageLine: "gaps <file options> [arguments]",
		Short:     "reports gap degrees and well-nestedness of converted trees",
		Long: `
reports gap degrees of the trees of a treebank and of their dependency
conversions, with well-nestedness and edge degree of the forests

	$ ./treedep gaps -in <treebank> -if <format> -f <task-headfinder> [options]

`,
		Flag: *flag.NewFlagSet("gaps", flag.ExitOnError),
	}
	PipelineFlags(cmd)
	return cmd
}
