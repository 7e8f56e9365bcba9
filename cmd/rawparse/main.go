// rawparse is a console driver for the parsing engine: it compiles a
// grammar description file, parses an input file against a chosen
// start non-terminal, and prints either the composed value or a
// farthest-failure diagnostic.
//
// Usage is
//
//	rawparse [--start <name>] [--print-grammar] <grammar-file> <input-file>
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ava12/rawparse/cursor"
	"github.com/ava12/rawparse/engine"
	"github.com/ava12/rawparse/grammar"
	"github.com/ava12/rawparse/stringvalue"
)

var (
	startName    string
	printGrammar bool
	verbose      bool

	log = logrus.New()
)

func main() {
	root := &cobra.Command{
		Use:   "rawparse <grammar-file> <input-file>",
		Short: "Parse an input file against a grammar description",
		Args:  cobra.ExactArgs(2),
		RunE:  run,
	}
	root.Flags().StringVar(&startName, "start", "main", "start non-terminal")
	root.Flags().BoolVar(&printGrammar, "print-grammar", false, "print the compiled grammar's readback form and exit")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each stage of compilation and parsing")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	grammarFile, inputFile := args[0], args[1]

	log.WithField("file", grammarFile).Debug("reading grammar description")
	grammarSrc, err := os.ReadFile(grammarFile)
	if err != nil {
		return errors.Wrap(err, "reading grammar file")
	}

	g, err := grammar.Compile(grammarSrc)
	if err != nil {
		return errors.Wrap(err, "compiling grammar")
	}
	g.SetEmpty(stringvalue.Empty)

	if printGrammar {
		fmt.Print(g.String())
		return nil
	}

	log.WithField("file", inputFile).Debug("reading input")
	inputSrc, err := os.ReadFile(inputFile)
	if err != nil {
		return errors.Wrap(err, "reading input file")
	}

	cur := cursor.New(inputFile, inputSrc)
	p := engine.New(g, cur, nil)

	log.WithField("start", startName).Debug("parsing")
	result, err := p.Parse(startName)
	if err != nil {
		return err
	}

	if sv, ok := result.(*stringvalue.Value); ok {
		fmt.Println(sv.String())
	} else if result != nil {
		result.Print(os.Stdout)
		fmt.Println()
	}
	return nil
}
