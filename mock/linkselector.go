package mock

import "github.com/hasna/docdex"

var _ docdex.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of docdex.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]docdex.DiscoveredLink, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]docdex.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}
