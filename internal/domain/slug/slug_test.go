package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "sentence with punctuation", input: "Hello, World! This is a test post.", expected: "hello-world-this-is-a-test-post"},
		{name: "simple words", input: "Hello World", expected: "hello-world"},
		{name: "leading and trailing noise", input: "  --Senior Go Engineer!!  ", expected: "senior-go-engineer"},
		{name: "underscores become separators", input: "remote_first_team", expected: "remote-first-team"},
		{name: "apostrophes dropped", input: "We're hiring", expected: "were-hiring"},
		{name: "typographic apostrophe dropped", input: "Don\u2019t wait", expected: "dont-wait"},
		{name: "diacritics folded", input: "Café résumé naïve", expected: "cafe-resume-naive"},
		{name: "digits kept", input: "Top 10 jobs in 2026", expected: "top-10-jobs-in-2026"},
		{name: "runs collapsed", input: "a   ---   b", expected: "a-b"},
		{name: "only symbols", input: "!@#$%^&*()", expected: ""},
		{name: "non latin script", input: "привет мир", expected: ""},
		{name: "empty", input: "", expected: ""},
		{name: "newlines and tabs", input: "line one\n\tline two", expected: "line-one-line-two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Normalize("Go Developer (Remote) / Berlin")
	assert.Equal(t, once, Normalize(once))
}

func TestBaseConsidersOnlyLeadingCharacters(t *testing.T) {
	t.Parallel()

	prefix := strings.Repeat("abcde ", 8) + "xy"
	if len([]rune(prefix)) != SourceLength {
		t.Fatalf("test prefix must be %d runes, got %d", SourceLength, len([]rune(prefix)))
	}

	first := Base(prefix + "first tail that differs")
	second := Base(prefix + "!! another completely different tail")

	assert.Equal(t, first, second)
	assert.Equal(t, Normalize(prefix), first)
}

func TestBaseCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("é", SourceLength) + "zzz"
	assert.Equal(t, strings.Repeat("e", SourceLength), Base(content))
}

func TestBaseStaysWithinColumnWidth(t *testing.T) {
	t.Parallel()

	// Each ㎯ decomposes to "rad∕s2", so 50 of them normalise to 300 bytes.
	expanding := strings.Repeat("\u33af", SourceLength)
	require.Greater(t, len(Normalize(expanding)), MaxBaseLength)

	base := Base(expanding)
	assert.LessOrEqual(t, len(base), MaxBaseLength)
	assert.True(t, Valid(base), "capped base %q must stay well formed", base)
	assert.True(t, strings.HasPrefix(Normalize(expanding), base))
	assert.LessOrEqual(t, len(base)+len(Separator)+SuffixLength, MaxLength)
}

func TestCapLengthCutsAtWordBoundary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alpha-beta", capLength("alpha-beta-gamma", 13))
	assert.Equal(t, "alpha-beta-gamma", capLength("alpha-beta-gamma", 16))
	assert.Equal(t, "abcde", capLength("abcdefgh", 5))
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid("hello-world"))
	assert.True(t, Valid("hello-world-a1b2"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("-hello"))
	assert.False(t, Valid("hello--world"))
	assert.False(t, Valid("Hello"))
	assert.False(t, Valid("hello_world"))
}
