package main

import (
	"fmt"

	"github.com/hasna/docdex"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docdex.Errorf(docdex.EINVALID, "use --force to confirm deletion")
	}

	lib, err := findLibrary(deps, c.Library)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: library %q not found. Use 'docdex list' to see indexed libraries.\n", c.Library)
		return err
	}

	if err := deps.Ingestor.Delete(deps.Ctx, lib.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted library %q\n", lib.ID)
	return nil
}
