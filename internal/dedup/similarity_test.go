package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "hello", "hello", 0},
		{"both empty", "", "", 0},
		{"against empty", "hello", "", 5},
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"single substitution", "cat", "bat", 1},
		{"insertion", "engineer", "enginee", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, LevenshteinDistance(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestCalculateSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, CalculateSimilarity("", ""))
	assert.Equal(t, 1.0, CalculateSimilarity("abc", "abc"))
	assert.Equal(t, 0.0, CalculateSimilarity("abc", "xyz"))

	pairs := [][2]string{
		{"software engineer", "software enginere"},
		{"kitten", "sitting"},
		{"", "x"},
		{"backend developer", "back-end developer"},
	}
	for _, p := range pairs {
		s1 := CalculateSimilarity(p[0], p[1])
		s2 := CalculateSimilarity(p[1], p[0])
		assert.Equal(t, s1, s2, "similarity must be symmetric for %q/%q", p[0], p[1])
		assert.GreaterOrEqual(t, s1, 0.0)
		assert.LessOrEqual(t, s1, 1.0)
	}
}

func TestAreJobTitlesSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"case only difference", "Software Engineer", "software engineer", true},
		{"trailing parenthetical difference", "Software Engineer (Remote)", "Software Engineer", true},
		{"minor typo above threshold", "software engineer", "software enginee", true},
		{"different roles", "Software Engineer", "Product Manager", false},
		{"blank titles never match", "", "", false},
		{"one blank never matches", "Software Engineer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AreJobTitlesSimilar(tt.a, tt.b, DefaultTitleSimilarityThreshold))
		})
	}
}

func TestAreJobTitlesSimilar_CustomThreshold(t *testing.T) {
	// "engineer" vs "enginee" is 7/8 = 0.875 similar.
	assert.True(t, AreJobTitlesSimilar("engineer", "enginee", 0.85))
	assert.False(t, AreJobTitlesSimilar("engineer", "enginee", 0.9))
}

func TestAreURLsSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "https://example.com/job/1", "https://example.com/job/1", true},
		{"tracking params ignored", "https://example.com/job/1", "https://example.com/job/1?utm_source=x&ref=y", true},
		{"scheme and www ignored", "http://www.example.com/job/1", "https://example.com/job/1", true},
		{"different paths", "https://example.com/job/1", "https://example.com/job/2", false},
		{"not fuzzy", "https://example.com/job/100", "https://example.com/job/1000", false},
		{"either empty", "", "https://example.com/job/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AreURLsSimilar(tt.a, tt.b))
		})
	}
}
