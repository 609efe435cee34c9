package bloom_test

import (
	"fmt"
	"testing"

	"github.com/hasna/docdex/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Add_then_Test(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/docs"))
	f.Add("https://example.com/docs")
	assert.True(t, f.Test("https://example.com/docs"))
}

func TestFilter_no_false_negatives(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	urls := make([]string, 500)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/docs/page-%d", i)
		f.Add(urls[i])
	}

	for _, url := range urls {
		assert.True(t, f.Test(url), url)
	}
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	for i := 0; i < 100; i++ {
		f.Add(fmt.Sprintf("https://example.com/%d", i))
	}

	count := f.EstimatedCount()
	assert.InDelta(t, 100, float64(count), 10)
}
