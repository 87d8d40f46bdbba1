// Package hasher implements the §4.5 semantic hash: a SHA-256 digest of the
// space-joined, comment-free leaf-token sequence of a re-parsed byte range.
package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/docref-dev/docref/internal/grammar"
	sitter "github.com/smacker/go-tree-sitter"
)

// HashRange computes the SemanticHash of content[start:end] under profile.
// Per §4.5 step 1 it re-parses the sub-slice rather than reusing any
// existing tree, so the hash is a pure function of the slice alone.
func HashRange(profile *grammar.Profile, content []byte, start, end uint32) (string, error) {
	slice := content[start:end]
	if profile == nil {
		return hashRawBytes(slice), nil
	}

	p := sitter.NewParser()
	p.SetLanguage(profile.Language)
	tree, err := p.ParseCtx(context.Background(), nil, slice)
	if err != nil || tree == nil {
		return "", err
	}
	defer tree.Close()

	var tokens []string
	collectLeafTokens(tree.RootNode(), slice, profile.IsCommentKind, &tokens)
	return hashTokens(tokens), nil
}

// HashWholeFile implements §4.5's WholeFile special case: the normalization
// procedure over the entire file for supported languages, or a raw SHA-256
// over bytes when profile is nil (unsupported extension).
func HashWholeFile(profile *grammar.Profile, content []byte) (string, error) {
	return HashRange(profile, content, 0, uint32(len(content)))
}

func collectLeafTokens(node *sitter.Node, content []byte, isComment func(string) bool, out *[]string) {
	if node.ChildCount() == 0 {
		if isComment != nil && isComment(node.Type()) {
			return
		}
		text := strings.TrimSpace(node.Content(content))
		if text != "" {
			*out = append(*out, text)
		}
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectLeafTokens(node.Child(i), content, isComment, out)
	}
}

func hashTokens(tokens []string) string {
	joined := strings.Join(tokens, " ")
	return hashRawBytes([]byte(joined))
}

func hashRawBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
