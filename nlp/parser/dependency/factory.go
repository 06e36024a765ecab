package dependency

import (
	"strings"

	"treedep/nlp/parser/headfinder"
	"treedep/util"
)

// Tasks lists the converter identifiers accepted by NewConverter
func Tasks() []string {
	return []string{UNLABELED, HALLNIVRE_LABELED, MAXPROJ_LABELED}
}

func composerFor(task string) (LabelComposer, error) {
	switch task {
	case UNLABELED:
		return UnlabeledComposer{}, nil
	case HALLNIVRE_LABELED:
		return HallNivreComposer{}, nil
	case MAXPROJ_LABELED:
		return MaxProjComposer{}, nil
	}
	return nil, &util.UnknownTaskError{Kind: "converter", Task: task}
}

// NewConverter builds the converter of task with the head finder described
// by params (see headfinder.New)
func NewConverter(task, params string) (*Converter, error) {
	composer, err := composerFor(task)
	if err != nil {
		return nil, err
	}
	finder, err := headfinder.New(params)
	if err != nil {
		return nil, err
	}
	return &Converter{Finder: finder, Composer: composer}, nil
}

// ParseFormat splits a converter format such as hallnivrelabeleddep-negra at
// the first '-' into task and head finder spec
func ParseFormat(format string) (task, params string) {
	task, params, _ = strings.Cut(format, "-")
	return task, params
}

func NewConverterFromFormat(format string) (*Converter, error) {
	return NewConverter(ParseFormat(format))
}
