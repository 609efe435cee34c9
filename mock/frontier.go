package mock

import "github.com/hasna/docdex"

var _ docdex.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of docdex.URLFrontier.
type URLFrontier struct {
	PushFn func(link docdex.DiscoveredLink) bool
	PopFn  func() (docdex.DiscoveredLink, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link docdex.DiscoveredLink) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (docdex.DiscoveredLink, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}
