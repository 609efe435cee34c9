package main

import (
	"context"
	"io"
	"time"

	"github.com/hasna/docdex"
	"github.com/hasna/docdex/ingest"
	"github.com/hasna/docdex/search"
	"github.com/hasna/docdex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Libraries docdex.LibraryService
	Pages     docdex.PageService
	Ingestor  *ingest.Ingestor
	Assembler *search.Assembler
	Answerer  docdex.Answerer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Add    AddCmd    `cmd:"" help:"Crawl and index a documentation site"`
	Batch  BatchCmd  `cmd:"" help:"Crawl and index multiple sites from a JSON manifest"`
	Query  QueryCmd  `cmd:"" help:"Retrieve documentation relevant to a query"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about a library's documentation"`
	List   ListCmd   `cmd:"" help:"List indexed libraries"`
	Delete DeleteCmd `cmd:"" help:"Delete a library and its index"`
	Export ExportCmd `cmd:"" help:"Export a library's pages as markdown files"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	URL         string   `arg:"" help:"Documentation URL to crawl"`
	Name        string   `short:"n" help:"Library display name (defaults to derived ID)"`
	MaxPages    int      `short:"m" default:"100" help:"Maximum pages to crawl"`
	Domain      []string `short:"d" help:"Additional allowed domain (repeatable)"`
	Exclude     []string `short:"x" help:"URL path pattern to skip, e.g. '**/changelog/**' (repeatable)"`
	Render      bool     `short:"r" help:"Render pages in a headless browser (for JavaScript-heavy sites)"`
	Rate        float64  `default:"2" help:"Max requests per second per domain"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent page fetches"`
	Preview     bool     `help:"Crawl and report pages without indexing anything"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File        string        `arg:"" help:"JSON file listing libraries to ingest"`
	Delay       time.Duration `default:"2s" help:"Pause between crawls"`
	Rate        float64       `default:"2" help:"Max requests per second per domain"`
	Concurrency int           `short:"c" default:"5" help:"Concurrent page fetches"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Library   string `arg:"" help:"Library ID or name"`
	Query     string `arg:"" help:"Search query"`
	TopK      int    `short:"k" default:"10" help:"Number of chunks to retrieve"`
	MaxTokens int    `default:"8000" help:"Approximate token budget for assembled context"`
	JSON      bool   `help:"Emit raw ranked chunks as JSON"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Library  string `arg:"" help:"Library ID or name"`
	Question string `arg:"" help:"Question to ask about the documentation"`
	TopK     int    `short:"k" default:"10" help:"Number of chunks to ground the answer on"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Library string `arg:"" help:"Library ID or name"`
	Force   bool   `help:"Confirm deletion"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Library string `arg:"" help:"Library ID or name"`
	Dir     string `arg:"" help:"Output directory"`
}

// findLibrary resolves a library reference by ID first, then by name.
func findLibrary(deps *Dependencies, ref string) (*docdex.LibraryMetadata, error) {
	lib, err := deps.Libraries.FindLibraryByID(deps.Ctx, ref)
	if err == nil {
		return lib, nil
	}
	if docdex.ErrorCode(err) != docdex.ENOTFOUND {
		return nil, err
	}
	return deps.Libraries.FindLibraryByName(deps.Ctx, ref)
}
