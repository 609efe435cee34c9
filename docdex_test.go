package docdex_test

import (
	"errors"
	"testing"

	"github.com/hasna/docdex"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docdex.Errorf(docdex.ENOTFOUND, "library %q not found", "test")

	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	assert.Equal(t, "library \"test\" not found", docdex.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docdex.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, docdex.EINTERNAL, docdex.ErrorCode(errors.New("disk failure")))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", docdex.ErrorMessage(errors.New("disk failure")))
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, docdex.EstimateTokens(""))
	assert.Equal(t, 1, docdex.EstimateTokens("abc"))
	assert.Equal(t, 1, docdex.EstimateTokens("abcd"))
	assert.Equal(t, 2, docdex.EstimateTokens("abcde"))
}

func TestEstimateTokens_IsDeterministic(t *testing.T) {
	t.Parallel()

	text := "Use a key to authenticate every request."
	assert.Equal(t, docdex.EstimateTokens(text), docdex.EstimateTokens(text))
}
