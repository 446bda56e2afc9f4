package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDifficulty(t *testing.T) {
	tests := map[string]string{
		"easy":   "Easy",
		"EASY":   "Easy",
		" Med ":  "Medium",
		"hard":   "Hard",
		"h":      "Hard",
		"insane": "Insane",
		"":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDifficulty(in), in)
	}
}

func TestNormalizeTopic(t *testing.T) {
	assert.Equal(t, "dynamic programming", NormalizeTopic("  Dynamic   Programming "))
	assert.Equal(t, "array", NormalizeTopic("Array"))
	assert.Equal(t, "dynamic programming", NormalizeTopic("dynamic-programming"))
	assert.Equal(t, "hash table", NormalizeTopic("Hash_Table"))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "two sum", NormalizeTitle("Two  Sum"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"easy", "medium", "hard"}, SplitList("easy,medium", " hard ,"))
	assert.Nil(t, SplitList(",", ""))
}
