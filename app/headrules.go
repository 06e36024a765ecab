package app

import (
	"bytes"
	"log"
	"os"

	"treedep/nlp/parser/headfinder"
	"treedep/util"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var headFinderSpec string

func HeadRules(cmd *commander.Command, args []string) error {
	opts, err := headfinder.ParseSpec(headFinderSpec)
	if err != nil {
		return err
	}
	finder, err := opts.Build()
	if err != nil {
		return err
	}
	rules, hasRules := headfinder.RulesOf(finder)
	if !hasRules {
		log.Printf("Head finder %s uses edge labels only", opts.Type)
		return nil
	}
	var buf bytes.Buffer
	if err := rules.Write(&buf); err != nil {
		return err
	}
	if allOut {
		log.Printf("Head finder:\t%s", opts.Type)
		if opts.RulesFile != "" {
			sum, err := util.MD5File(opts.RulesFile)
			if err != nil {
				return err
			}
			log.Printf("Rules file:\t%s (md5 %s)", opts.RulesFile, sum)
		}
		log.Printf("Categories:\t%d", len(rules))
		log.Printf("Table md5:\t%s", util.MD5Bytes(buf.Bytes()))
	}
	_, err = buf.WriteTo(os.Stdout)
	return err
}

func HeadRulesCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       HeadRules,
		UsageLine: "headrules [options]",
		Short:     "prints the head rule table of a head finder",
		Long: `
prints the head rule table of a head finder

	$ ./treedep headrules -hf negra|ptb|dptb[:rules=<file>]

`,
		Flag: *flag.NewFlagSet("headrules", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&headFinderSpec, "hf", headfinder.HF_NEGRA, "Head finder type[:rules=<file>]")
	return cmd
}
