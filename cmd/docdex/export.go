package main

import (
	"fmt"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	lib, err := findLibrary(deps, c.Library)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: library %q not found. Use 'docdex list' to see indexed libraries.\n", c.Library)
		return err
	}

	pages, err := deps.Pages.FindPagesByLibrary(deps.Ctx, lib.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintf(deps.Stderr, "error: library %q has no stored pages\n", lib.ID)
		return docdex.Errorf(docdex.ENOTFOUND, "library %q has no stored pages", lib.ID)
	}

	writer := fs.NewWriter(c.Dir)
	if err := writer.WritePages(deps.Ctx, pages); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", len(pages), c.Dir)
	return nil
}
