package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, &Usage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 9}, New(3, 4, 9))
}

func TestNew_DerivesTotal(t *testing.T) {
	assert.Equal(t, 7, New(3, 4, 0).TotalTokens)
}

func TestNew_AllZero(t *testing.T) {
	assert.Equal(t, &Usage{}, New(0, 0, 0))
}
