package docdex

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// LibraryMetadata is the durable record of one ingested documentation
// website: what was ingested from where. Created on first successful
// ingestion, updated on re-ingestion, never mutated by the query path.
type LibraryMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WebsiteURL  string    `json:"websiteUrl"`
	DocsURL     string    `json:"docsUrl,omitempty"`
	Domain      string    `json:"domain"`
	IndexedAt   time.Time `json:"indexedAt"`
	ChunkCount  int       `json:"chunkCount"`
	PageCount   int       `json:"pageCount"`
	IndexName   string    `json:"indexName"`
	CrawledURLs []string  `json:"crawledUrls,omitempty"`
}

// Validate returns an error if the library contains invalid fields.
func (l *LibraryMetadata) Validate() error {
	if l.ID == "" {
		return Errorf(EINVALID, "library ID required")
	}
	if l.Name == "" {
		return Errorf(EINVALID, "library name required")
	}
	if l.WebsiteURL == "" {
		return Errorf(EINVALID, "library website URL required")
	}
	if l.IndexName == "" {
		return Errorf(EINVALID, "library index name required")
	}
	return nil
}

// LibraryService manages library metadata records.
type LibraryService interface {
	// CreateLibrary creates a new library record.
	CreateLibrary(ctx context.Context, lib *LibraryMetadata) error

	// FindLibraryByID retrieves a library by its sanitized ID.
	// Returns ENOTFOUND if the library does not exist.
	FindLibraryByID(ctx context.Context, id string) (*LibraryMetadata, error)

	// FindLibraryByName retrieves a library by its display name.
	// Returns ENOTFOUND if the library does not exist.
	FindLibraryByName(ctx context.Context, name string) (*LibraryMetadata, error)

	// FindLibraries retrieves all libraries ordered by name.
	FindLibraries(ctx context.Context) ([]*LibraryMetadata, error)

	// UpdateLibrary replaces the mutable fields of an existing library.
	// Returns ENOTFOUND if the library does not exist.
	UpdateLibrary(ctx context.Context, lib *LibraryMetadata) error

	// DeleteLibrary permanently removes a library record.
	// Returns ENOTFOUND if the library does not exist.
	DeleteLibrary(ctx context.Context, id string) error
}

// subdomainPrefixes are common documentation host prefixes that carry no
// identity and are stripped when deriving a library ID.
var subdomainPrefixes = []string{"www.", "docs.", "api.", "developer.", "developers.", "help."}

// LibraryIDFromURL derives a sanitized library ID from a seed URL.
//
// The ID is based on the domain with common subdomain prefixes stripped,
// plus the first meaningful path segment when present, e.g.
// https://docs.example.com/sdk/getting-started -> "example-com-sdk".
// Returns EINVALID for unparsable URLs or non-http(s) schemes.
func LibraryIDFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	for _, prefix := range subdomainPrefixes {
		if trimmed := strings.TrimPrefix(host, prefix); trimmed != host && strings.Contains(trimmed, ".") {
			host = trimmed
			break
		}
	}

	id := sanitizeID(host)

	if segment := firstPathSegment(u.Path); segment != "" {
		id += "-" + sanitizeID(segment)
	}

	return id, nil
}

// genericPathSegments are first path segments too generic to
// disambiguate a library.
var genericPathSegments = map[string]bool{
	"docs": true, "doc": true, "documentation": true,
	"guide": true, "guides": true, "learn": true,
	"latest": true, "stable": true, "en": true,
}

// firstPathSegment returns the first path segment when it is meaningful
// enough to disambiguate a library, or "" otherwise.
func firstPathSegment(path string) string {
	segment, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
	if segment == "" || genericPathSegments[strings.ToLower(segment)] {
		return ""
	}
	return segment
}

// sanitizeID lowercases s and replaces every run of non-alphanumeric
// characters with a single hyphen.
func sanitizeID(s string) string {
	var sb strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
