package main

import (
	"fmt"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/ingest"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	events := func(event docdex.CrawlEvent) {
		switch event.Type {
		case docdex.EventExtracted:
			fmt.Fprintf(deps.Stdout, "  [%d] %s\n", event.Fetched, event.URL)
		case docdex.EventSkipped:
			fmt.Fprintf(deps.Stdout, "  skip %s\n", event.URL)
		case docdex.EventError:
			fmt.Fprintf(deps.Stderr, "  error %s: %v\n", event.URL, event.Err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Crawling %s\n", c.URL)

	opts := ingest.AddOptions{
		Name:            c.Name,
		MaxPages:        c.MaxPages,
		AllowedDomains:  c.Domain,
		ExcludePatterns: c.Exclude,
		Events:          events,
	}

	if c.Preview {
		result, err := deps.Ingestor.Preview(deps.Ctx, c.URL, opts)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Preview: %d pages discovered, nothing indexed\n", result.TotalPages)
		return nil
	}

	result, err := deps.Ingestor.Add(deps.Ctx, c.URL, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %q: %d pages, %d chunks",
		result.Library.ID, result.PagesCrawled, result.ChunksIndexed)
	if result.ChunksFailed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d chunks failed to embed)", result.ChunksFailed)
	}
	fmt.Fprintln(deps.Stdout)

	return nil
}
