package main

import (
	"fmt"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/search"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	lib, err := findLibrary(deps, c.Library)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: library %q not found. Use 'docdex list' to see indexed libraries.\n", c.Library)
		return err
	}

	result, err := deps.Assembler.SemanticSearch(deps.Ctx, lib.IndexName, c.Question, search.Options{
		TopK: c.TopK,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	if result.Content == "" {
		fmt.Fprintln(deps.Stdout, "No relevant documentation found to answer from.")
		return nil
	}

	answer, err := deps.Answerer.Answer(deps.Ctx, result.Content, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
