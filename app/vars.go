package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"treedep/nlp/format/bracket"
	"treedep/nlp/format/conll"
	"treedep/nlp/format/conllu"
	"treedep/nlp/format/export"
	"treedep/nlp/parser/dependency"
	"treedep/nlp/parser/transform"
	nlp "treedep/nlp/types"
	"treedep/util"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"gopkg.in/yaml.v3"
)

const (
	FORMAT_EXPORT      = "export"
	FORMAT_BRACKET     = "bracket"
	FORMAT_DISCBRACKET = "discbracket"

	FORMAT_CONLL  = "conll"
	FORMAT_CONLLU = "conllu"

	DEFAULT_CONVERTER = dependency.HALLNIVRE_LABELED + "-negra"
	DEFAULT_WORKERS   = 1
	// BATCH_SIZE is the number of trees read ahead and converted concurrently
	BATCH_SIZE = 512

	STDIO = "-"
)

var (
	allOut = true

	// file names
	input        string
	inputGold    string
	inputParsed  string
	outConll     string
	outFormat    = FORMAT_CONLL
	pipelineFile string

	pipeline = Pipeline{
		InputFormat: FORMAT_EXPORT,
		Converter:   DEFAULT_CONVERTER,
		Workers:     DEFAULT_WORKERS,
	}
)

var ErrMissingFlag = errors.New("required flag not set")

func InputFormats() []string {
	formats := []string{FORMAT_EXPORT, FORMAT_BRACKET, FORMAT_DISCBRACKET}
	sort.Strings(formats)
	return formats
}

// OpenTrees returns a scanner over the trees in reader
func OpenTrees(reader io.Reader, format string) (nlp.TreeScanner, error) {
	switch format {
	case FORMAT_EXPORT:
		return export.NewScanner(reader), nil
	case FORMAT_BRACKET:
		return bracket.NewScanner(reader, false), nil
	case FORMAT_DISCBRACKET:
		return bracket.NewScanner(reader, true), nil
	}
	return nil, &util.UnknownTaskError{Kind: "input format", Task: format}
}

func OutputFormats() []string {
	return []string{FORMAT_CONLL, FORMAT_CONLLU}
}

// ForestWriter is the writer of a dependency output format
type ForestWriter func(io.Writer, *nlp.Forest) error

func WriterFor(format string) (ForestWriter, error) {
	switch format {
	case FORMAT_CONLL:
		return func(w io.Writer, forest *nlp.Forest) error {
			return conll.WriteSentence(w, conll.Forest2Conll(forest))
		}, nil
	case FORMAT_CONLLU:
		return func(w io.Writer, forest *nlp.Forest) error {
			return conllu.WriteSentence(w, conllu.Forest2ConllU(forest))
		}, nil
	}
	return nil, &util.UnknownTaskError{Kind: "output format", Task: format}
}

// ReadForests reads a dependency file in one of the output formats
func ReadForests(filename, format string) ([]*nlp.Forest, error) {
	switch format {
	case FORMAT_CONLL:
		sents, err := conll.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return conll.Conll2ForestCorpus(sents)
	case FORMAT_CONLLU:
		sents, err := conllu.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return conllu.ConllU2ForestCorpus(sents)
	}
	return nil, &util.UnknownTaskError{Kind: "output format", Task: format}
}

// Pipeline is the conversion setup, from flags or a YAML file
type Pipeline struct {
	InputFormat string `yaml:"input format"`
	// Converter is a converter task, optionally followed by -headfinder
	Converter  string `yaml:"converter"`
	HeadFinder string `yaml:"head finder"`
	Workers    int    `yaml:"workers"`
	SkipErrors bool   `yaml:"skip errors"`
	// Transforms is a comma separated list of tree transforms applied in
	// order before conversion
	Transforms string `yaml:"transforms"`
}

// Format returns the converter format; HeadFinder replaces a head finder
// given in Converter
func (p *Pipeline) Format() string {
	if p.HeadFinder == "" {
		return p.Converter
	}
	task, _ := dependency.ParseFormat(p.Converter)
	return task + "-" + p.HeadFinder
}

// Build creates the converter of the pipeline, including its transforms
func (p *Pipeline) Build() (*dependency.Converter, error) {
	conv, err := dependency.NewConverterFromFormat(p.Format())
	if err != nil {
		return nil, err
	}
	conv.Transforms, err = transform.New(transform.ParseList(p.Transforms), conv.Finder)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func ReadPipeline(reader io.Reader) (*Pipeline, error) {
	p := &Pipeline{}
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(p); err != nil && err != io.EOF {
		return nil, err
	}
	return p, nil
}

func ReadPipelineFile(filename string) (*Pipeline, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadPipeline(file)
}

// Merge copies the settings of other into p, except those whose flag was set
// explicitly in flags
func (p *Pipeline) Merge(other *Pipeline, flags *flag.FlagSet) {
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["if"] && other.InputFormat != "" {
		p.InputFormat = other.InputFormat
	}
	if !set["f"] && other.Converter != "" {
		p.Converter = other.Converter
	}
	if !set["hf"] && other.HeadFinder != "" {
		p.HeadFinder = other.HeadFinder
	}
	if !set["j"] && other.Workers > 0 {
		p.Workers = other.Workers
	}
	if !set["skip"] && other.SkipErrors {
		p.SkipErrors = true
	}
	if !set["t"] && other.Transforms != "" {
		p.Transforms = other.Transforms
	}
}

// LoadPipeline merges the pipeline file given with -c into target
func LoadPipeline(flags *flag.FlagSet, filename string, target *Pipeline) error {
	fromFile, err := ReadPipelineFile(filename)
	if err != nil {
		return fmt.Errorf("reading pipeline configuration %s: %w", filename, err)
	}
	target.Merge(fromFile, flags)
	return nil
}

func PipelineFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&input, "in", STDIO, "Input treebank file (- for stdin)")
	cmd.Flag.StringVar(&pipeline.InputFormat, "if", FORMAT_EXPORT, "Input format: export, bracket or discbracket")
	cmd.Flag.StringVar(&pipeline.Converter, "f", DEFAULT_CONVERTER, "Converter as task-headfinder, tasks: unlabeleddep, hallnivrelabeleddep, maxprojlabeleddep")
	cmd.Flag.StringVar(&pipeline.HeadFinder, "hf", "", "Head finder type[:rules=<file>,cache=<n>], replaces the one in -f")
	cmd.Flag.IntVar(&pipeline.Workers, "j", DEFAULT_WORKERS, "Number of sentences converted concurrently")
	cmd.Flag.BoolVar(&pipeline.SkipErrors, "skip", false, "Log and skip sentences that fail to convert")
	cmd.Flag.StringVar(&pipeline.Transforms, "t", "", "Comma separated tree transforms applied before conversion: punctlowerer, headlabeler")
	cmd.Flag.StringVar(&pipelineFile, "c", "", "YAML pipeline configuration; explicit flags take precedence")
}

func PipelineConfigOut() {
	log.Println("Configuration")
	log.Printf("Converter:\t\t%s", pipeline.Format())
	if pipeline.Transforms != "" {
		log.Printf("Transforms:\t\t%s", pipeline.Transforms)
	}
	log.Printf("Workers:\t\t%d", pipeline.Workers)
	log.Printf("Skip errors:\t\t%v", pipeline.SkipErrors)
	if pipelineFile != "" {
		log.Printf("Pipeline file:\t%s", pipelineFile)
	}
	log.Println()
	log.Println("Data")
	log.Printf("Input:\t\t\t%s", input)
	log.Printf("Input format:\t\t%s", pipeline.InputFormat)
}

func VerifyExists(filename string) bool {
	if filename == STDIO {
		return true
	}
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f == nil || f.Value.String() == "" {
			log.Printf("Required flag %s not set", name)
			cmd.Usage()
			return fmt.Errorf("%w: -%s", ErrMissingFlag, name)
		}
	}
	return nil
}

func openInput(filename string) (io.ReadCloser, error) {
	if filename == STDIO || filename == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(filename)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func openOutput(filename string) (io.WriteCloser, error) {
	if filename == STDIO || filename == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(filename)
}

// setupPipeline loads -c and builds the converter
func setupPipeline(cmd *commander.Command) (*dependency.Converter, error) {
	if pipelineFile != "" {
		if !VerifyExists(pipelineFile) {
			return nil, fmt.Errorf("pipeline configuration %s not found", pipelineFile)
		}
		if err := LoadPipeline(&cmd.Flag, pipelineFile, &pipeline); err != nil {
			return nil, err
		}
	}
	if !VerifyExists(input) {
		return nil, fmt.Errorf("input %s not found", input)
	}
	if allOut {
		PipelineConfigOut()
	}
	return pipeline.Build()
}
