package main

import (
	"encoding/json"
	"fmt"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/search"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	lib, err := findLibrary(deps, c.Library)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: library %q not found. Use 'docdex list' to see indexed libraries.\n", c.Library)
		return err
	}

	if c.JSON {
		results, err := deps.Assembler.SearchAsJSON(deps.Ctx, lib.IndexName, c.Query, c.TopK)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
			return err
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	result, err := deps.Assembler.SemanticSearch(deps.Ctx, lib.IndexName, c.Query, search.Options{
		TopK:      c.TopK,
		MaxTokens: c.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if result.Content == "" {
		fmt.Fprintln(deps.Stdout, "No relevant documentation found.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, result.Content)
	return nil
}
