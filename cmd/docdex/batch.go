package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/ingest"
)

// batchEntry is one library in a batch manifest.
type batchEntry struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Priority int    `json:"priority"`
	MaxPages int    `json:"maxPages"`
}

// Run executes the batch command: sequential ingestion over the
// manifest entries with a fixed pause between crawls. One entry's
// failure never blocks the rest.
func (c *BatchCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []batchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse batch file %q: %w", c.File, err)
	}
	if len(entries) == 0 {
		return docdex.Errorf(docdex.EINVALID, "batch file %q contains no entries", c.File)
	}

	// Higher-priority libraries ingest first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority > entries[j].Priority
	})

	failed := 0
	for i, entry := range entries {
		if i > 0 {
			select {
			case <-deps.Ctx.Done():
				return deps.Ctx.Err()
			case <-time.After(c.Delay):
			}
		}

		fmt.Fprintf(deps.Stdout, "[%d/%d] Crawling %s\n", i+1, len(entries), entry.URL)

		result, err := deps.Ingestor.Add(deps.Ctx, entry.URL, ingest.AddOptions{
			Name:     entry.Name,
			MaxPages: entry.MaxPages,
		})
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", entry.URL, docdex.ErrorMessage(err))
			continue
		}

		fmt.Fprintf(deps.Stdout, "Indexed %q: %d pages, %d chunks\n",
			result.Library.ID, result.PagesCrawled, result.ChunksIndexed)
	}

	fmt.Fprintf(deps.Stdout, "Batch complete: %d indexed, %d failed\n", len(entries)-failed, failed)
	if failed == len(entries) {
		return docdex.Errorf(docdex.EUNAVAILABLE, "all %d batch entries failed", failed)
	}
	return nil
}
