package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchales/huistack-backend/internal/domain"
	"github.com/mchales/huistack-backend/internal/textseg"
)

func word(s string) textseg.Piece  { return textseg.Piece{Text: s, Kind: domain.TokenKindWord} }
func punct(s string) textseg.Piece { return textseg.Piece{Text: s, Kind: domain.TokenKindPunct} }

func lemmaSet(words ...string) map[string]domain.LemmaRef {
	refs := make(map[string]domain.LemmaRef, len(words))
	for _, w := range words {
		refs[w] = domain.LemmaRef{ID: uuid.New()}
	}
	return refs
}

func TestResolver_SingleBatchedLookup(t *testing.T) {
	t.Parallel()

	var calls int
	var gotForms []string
	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, forms []string) (map[string]domain.LemmaRef, error) {
			calls++
			gotForms = forms
			return lemmaSet("你好", "世界"), nil
		},
	}

	r := NewResolver(lemmas)
	_, err := r.Resolve(context.Background(), [][]textseg.Piece{
		{word("你好"), punct("。")},
		{word("世界"), punct("！")},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls, "the whole submission resolves in one query")
	// Distinct word texts plus their constituent characters, no punctuation.
	assert.ElementsMatch(t, []string{"你好", "你", "好", "世界", "世", "界"}, gotForms)
}

func TestResolver_ExactMatchKeepsWordWhole(t *testing.T) {
	t.Parallel()

	refs := lemmaSet("你好")
	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, _ []string) (map[string]domain.LemmaRef, error) {
			return refs, nil
		},
	}

	res, err := NewResolver(lemmas).Resolve(context.Background(), [][]textseg.Piece{{word("你好")}})
	require.NoError(t, err)

	tokens := res.Sentences[0]
	require.Len(t, tokens, 1)
	assert.Equal(t, "你好", tokens[0].Text)
	require.NotNil(t, tokens[0].LemmaID)
	assert.Equal(t, refs["你好"].ID, *tokens[0].LemmaID)
	assert.Empty(t, res.MissingCharacters)
}

func TestResolver_ExactMissExpandsToCharacters(t *testing.T) {
	t.Parallel()

	// "图书馆" is absent but "图" and "书" have headwords; "馆" does not.
	refs := lemmaSet("图", "书")
	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, _ []string) (map[string]domain.LemmaRef, error) {
			return refs, nil
		},
	}

	res, err := NewResolver(lemmas).Resolve(context.Background(), [][]textseg.Piece{{word("图书馆")}})
	require.NoError(t, err)

	tokens := res.Sentences[0]
	require.Len(t, tokens, 3)

	assert.Equal(t, "图", tokens[0].Text)
	require.NotNil(t, tokens[0].LemmaID)
	assert.Equal(t, "书", tokens[1].Text)
	require.NotNil(t, tokens[1].LemmaID)
	assert.Equal(t, "馆", tokens[2].Text)
	assert.Nil(t, tokens[2].LemmaID)

	for _, tok := range tokens {
		assert.Equal(t, domain.TokenKindWord, tok.Kind)
	}

	assert.Equal(t, []string{"馆"}, res.MissingCharacters)
}

func TestResolver_IndicesStayContiguousAfterExpansion(t *testing.T) {
	t.Parallel()

	refs := lemmaSet("我")
	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, _ []string) (map[string]domain.LemmaRef, error) {
			return refs, nil
		},
	}

	// "喜欢" misses and expands into two tokens; everything after must
	// renumber without gaps.
	res, err := NewResolver(lemmas).Resolve(context.Background(), [][]textseg.Piece{
		{word("我"), word("喜欢"), word("我"), punct("。")},
	})
	require.NoError(t, err)

	tokens := res.Sentences[0]
	require.Len(t, tokens, 5)
	for i, tok := range tokens {
		assert.Equal(t, i+1, tok.Index)
	}
	assert.Equal(t, []string{"我", "喜", "欢", "我", "。"}, textsOf(tokens))
}

func TestResolver_NonWordTokensNeverSplit(t *testing.T) {
	t.Parallel()

	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, _ []string) (map[string]domain.LemmaRef, error) {
			return map[string]domain.LemmaRef{}, nil
		},
	}

	res, err := NewResolver(lemmas).Resolve(context.Background(), [][]textseg.Piece{{
		{Text: "2024", Kind: domain.TokenKindNumber},
		{Text: "GDP", Kind: domain.TokenKindLatin},
		punct("……"),
	}})
	require.NoError(t, err)

	tokens := res.Sentences[0]
	require.Len(t, tokens, 3)
	assert.Equal(t, []string{"2024", "GDP", "……"}, textsOf(tokens))
	for _, tok := range tokens {
		assert.Nil(t, tok.LemmaID)
	}
	// Numbers and latin runs are not dictionary material.
	assert.Empty(t, res.MissingCharacters)
}

func TestResolver_MissingCharactersDistinctAndSorted(t *testing.T) {
	t.Parallel()

	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, _ []string) (map[string]domain.LemmaRef, error) {
			return map[string]domain.LemmaRef{}, nil
		},
	}

	res, err := NewResolver(lemmas).Resolve(context.Background(), [][]textseg.Piece{
		{word("乙甲")},
		{word("甲乙")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"乙", "甲"}, res.MissingCharacters)
}

func TestResolver_LookupErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("connection refused")
	lemmas := &mockLemmaRepo{
		GetBySurfaceFormsFunc: func(_ context.Context, _ []string) (map[string]domain.LemmaRef, error) {
			return nil, wantErr
		},
	}

	_, err := NewResolver(lemmas).Resolve(context.Background(), [][]textseg.Piece{{word("你")}})
	assert.ErrorIs(t, err, wantErr)
}

func textsOf(tokens []domain.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
