package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "A B C", CollapseWhitespace("  A \t B\n\nC  "))
	assert.Equal(t, "", CollapseWhitespace("   "))
}

func TestFirstTokens(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"ONE TWO THREE FOUR FIVE", 4, "ONE TWO THREE FOUR"},
		{"ONE  TWO", 4, "ONE TWO"},
		{"ONE", 0, ""},
		{"", 3, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstTokens(tt.in, tt.n), tt.in)
	}
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, IsNumeric("123456"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("12A"))

	assert.True(t, IsDateToken("4/12"))
	assert.True(t, IsDateToken("04/12/24"))
	assert.True(t, IsDateToken("04/12/2024"))
	assert.False(t, IsDateToken("APPLE.COM/BILL"))
	assert.False(t, IsDateToken("123"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "CAFÉ", Truncate("CAFÉ DU MONDE", 4))
	assert.Equal(t, "SHORT", Truncate("SHORT", 30))
	assert.Equal(t, "", Truncate("X", 0))
}
