// Command docdex crawls documentation websites, indexes their content
// in an external vector index, and retrieves relevant context for
// questions about them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/hasna/docdex"
	"github.com/hasna/docdex/chunker"
	"github.com/hasna/docdex/crawl"
	"github.com/hasna/docdex/gemini"
	"github.com/hasna/docdex/goquery"
	"github.com/hasna/docdex/htmltomarkdown"
	dochttp "github.com/hasna/docdex/http"
	"github.com/hasna/docdex/ingest"
	"github.com/hasna/docdex/rod"
	"github.com/hasna/docdex/search"
	docslog "github.com/hasna/docdex/slog"
	"github.com/hasna/docdex/sqlite"
	"github.com/hasna/docdex/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	LibraryService docdex.LibraryService
	PageService    docdex.PageService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.LibraryService = sqlite.NewLibraryService(m.DB)
	m.PageService = sqlite.NewPageService(m.DB)
	deps.DB = m.DB
	deps.Libraries = m.LibraryService
	deps.Pages = m.PageService

	// The add, batch, query, ask and delete commands talk to the
	// embedding API and the vector index service. A preview-only add
	// never touches either.
	ingestCmd := cmd == "add" || cmd == "batch"
	previewOnly := cmd == "add" && cli.Add.Preview

	var embedder docdex.Embedder
	var index docdex.VectorIndex
	if (ingestCmd && !previewOnly) || cmd == "query" || cmd == "ask" || cmd == "delete" {
		index, err = vectorIndexFromEnv()
		if err != nil {
			return err
		}
		index = docslog.NewLoggingVectorIndex(index, logger)
	}
	if (ingestCmd && !previewOnly) || cmd == "query" || cmd == "ask" {
		client, err := geminiClientFromEnv(ctx, stderr)
		if err != nil {
			return err
		}
		embedder = docslog.NewLoggingEmbedder(gemini.NewEmbedder(client), logger)
		deps.Assembler = search.NewAssembler(embedder, index)
		if cmd == "ask" {
			deps.Answerer = gemini.NewAnswerer(client)
		}
	}

	if ingestCmd {
		var fetcher docdex.Fetcher
		if cmd == "add" && cli.Add.Render {
			fetcher, err = rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		} else {
			fetcher = dochttp.NewFetcher()
		}
		defer fetcher.Close()

		rate, concurrency := cli.Add.Rate, cli.Add.Concurrency
		if cmd == "batch" {
			rate, concurrency = cli.Batch.Rate, cli.Batch.Concurrency
		}

		deps.Ingestor = &ingest.Ingestor{
			Crawler: &crawl.Crawler{
				Fetcher:     docslog.NewLoggingFetcher(fetcher, logger),
				Extractor:   &goquery.Extractor{Fallback: trafilatura.NewExtractor()},
				Converter:   htmltomarkdown.NewConverter(),
				Links:       goquery.NewLinkSelector(),
				Sitemaps:    docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), logger),
				RateLimiter: crawl.NewDomainLimiter(rate),
				Concurrency: concurrency,
			},
			Splitter:  chunker.New(),
			Embedder:  embedder,
			Index:     index,
			Libraries: deps.Libraries,
			Pages:     deps.Pages,
		}
	}
	if cmd == "delete" {
		deps.Ingestor = &ingest.Ingestor{
			Index:     index,
			Libraries: deps.Libraries,
			Pages:     deps.Pages,
		}
	}

	return kongCtx.Run(deps)
}

func vectorIndexFromEnv() (docdex.VectorIndex, error) {
	baseURL := os.Getenv("DOCDEX_VECTOR_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("DOCDEX_VECTOR_URL not set. Point it at your vector index service")
	}
	return dochttp.NewVectorIndex(baseURL, os.Getenv("DOCDEX_VECTOR_API_KEY")), nil
}

func geminiClientFromEnv(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func defaultDBPath() string {
	if path := os.Getenv("DOCDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docdex.db"
	}
	dir := filepath.Join(home, ".docdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docdex.db")
}
