package docdex

import (
	"regexp"
	"strings"
)

// PathPattern is a compiled glob-like pattern matched against URL path
// components:
//
//	*  matches any run of non-separator characters
//	** matches any run of characters including separators
//	?  matches a single non-separator character
//
// Patterns match the whole path, so "**/changelog/**" matches any path
// with a /changelog/ segment.
type PathPattern struct {
	raw string
	re  *regexp.Regexp
}

// CompilePathPattern compiles a glob-like path pattern.
func CompilePathPattern(pattern string) (*PathPattern, error) {
	if pattern == "" {
		return nil, Errorf(EINVALID, "empty path pattern")
	}

	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, Errorf(EINVALID, "invalid path pattern %q: %v", pattern, err)
	}
	return &PathPattern{raw: pattern, re: re}, nil
}

// Match reports whether the URL path matches the pattern. The leading
// slash of the path is ignored so "docs/*" and "/docs/intro" line up.
func (p *PathPattern) Match(path string) bool {
	return p.re.MatchString(strings.TrimPrefix(path, "/")) || p.re.MatchString(path)
}

// String returns the original pattern text.
func (p *PathPattern) String() string { return p.raw }

// MatchPath is a convenience wrapper that compiles pattern and matches it
// against path. Invalid patterns never match.
func MatchPath(pattern, path string) bool {
	p, err := CompilePathPattern(pattern)
	if err != nil {
		return false
	}
	return p.Match(path)
}
