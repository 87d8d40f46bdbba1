package hasher

import (
	"testing"

	"github.com/docref-dev/docref/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goTestProfile() *grammar.Profile {
	return grammar.NewRegistry().ProfileForFile("x.go")
}

func TestHashRangeIgnoresFormattingAndComments(t *testing.T) {
	a := []byte(`func Add(a, b int) int {
	// sum the two inputs
	return a + b
}`)
	b := []byte(`func Add(a, b int) int {


	return a+b
}`)

	profile := goTestProfile()

	ha, err := HashRange(profile, a, 0, uint32(len(a)))
	require.NoError(t, err)
	hb, err := HashRange(profile, b, 0, uint32(len(b)))
	require.NoError(t, err)
	assert.Equal(t, ha, hb, "expected formatting/comment-insensitive hashes to match")
}

func TestHashRangeDetectsBodyChange(t *testing.T) {
	a := []byte(`func Add(a, b int) int { return a + b }`)
	b := []byte(`func Add(a, b int) int { return a - b }`)

	profile := goTestProfile()

	ha, err := HashRange(profile, a, 0, uint32(len(a)))
	require.NoError(t, err)
	hb, err := HashRange(profile, b, 0, uint32(len(b)))
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb, "expected a semantic change to produce a different hash")
}

func TestHashRangeUnsupportedLanguageFallsBackToRawBytes(t *testing.T) {
	data := []byte("some opaque content")
	h1, err := HashRange(nil, data, 0, uint32(len(data)))
	require.NoError(t, err)
	h2 := hashRawBytes(data)
	assert.Equal(t, h2, h1, "nil profile should hash raw bytes directly")
}
