package main

import (
	"fmt"

	"github.com/hasna/docdex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	libs, err := deps.Libraries.FindLibraries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(libs) == 0 {
		fmt.Fprintln(deps.Stdout, "No libraries indexed. Use 'docdex add' to index one.")
		return nil
	}

	for _, lib := range libs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d pages, %d chunks  indexed %s\n",
			lib.ID, lib.WebsiteURL, lib.PageCount, lib.ChunkCount,
			lib.IndexedAt.Format("2006-01-02"))
	}

	return nil
}
