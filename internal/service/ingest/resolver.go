package ingest

import (
	"context"
	"sort"

	"github.com/mchales/huistack-backend/internal/domain"
	"github.com/mchales/huistack-backend/internal/textseg"
)

// Resolver links word tokens to dictionary headwords. The whole ingestion
// resolves against one batched lookup: the candidate set (every distinct
// word text plus its constituent characters) is collected up front, then
// queried in a single round trip.
type Resolver struct {
	lemmas lemmaRepo
}

// NewResolver creates a Resolver.
func NewResolver(lemmas lemmaRepo) *Resolver {
	return &Resolver{lemmas: lemmas}
}

// Resolution is the outcome of resolving all sentences of one ingestion.
type Resolution struct {
	// Sentences[i] holds the final token stream for input sentence i,
	// with contiguous 1-based indices.
	Sentences [][]domain.Token
	// MissingCharacters are the distinct characters that matched no
	// headword even after the per-character fallback, sorted.
	MissingCharacters []string
	// MatchedLemmaIDs is the set of headwords referenced by any token.
	MatchedLemmaIDs map[string]domain.LemmaRef
}

// Resolve annotates tokenized sentences with lemma IDs.
//
// A word token whose exact text has a headword keeps its text and gets
// that lemma. On an exact miss the token is expanded into one word token
// per character, each resolved independently against the same batch
// result; characters without a headword stay unlinked and are reported
// as missing. Non-word tokens pass through unresolved and are never
// split.
func (r *Resolver) Resolve(ctx context.Context, sentences [][]textseg.Piece) (*Resolution, error) {
	forms := collectForms(sentences)

	refs, err := r.lemmas.GetBySurfaceForms(ctx, forms)
	if err != nil {
		return nil, err
	}

	missing := make(map[string]struct{})
	resolved := make([][]domain.Token, len(sentences))

	for i, pieces := range sentences {
		tokens := make([]domain.Token, 0, len(pieces))
		index := 1

		for _, p := range pieces {
			if p.Kind != domain.TokenKindWord {
				tokens = append(tokens, domain.Token{Index: index, Text: p.Text, Kind: p.Kind})
				index++
				continue
			}

			if ref, ok := refs[p.Text]; ok {
				id := ref.ID
				tokens = append(tokens, domain.Token{Index: index, Text: p.Text, Kind: p.Kind, LemmaID: &id})
				index++
				continue
			}

			// Exact miss: degrade to per-character tokens so the learner
			// still gets partial recognizability.
			for _, ch := range p.Text {
				char := string(ch)
				tok := domain.Token{Index: index, Text: char, Kind: domain.TokenKindWord}
				if ref, ok := refs[char]; ok {
					id := ref.ID
					tok.LemmaID = &id
				} else {
					missing[char] = struct{}{}
				}
				tokens = append(tokens, tok)
				index++
			}
		}

		resolved[i] = tokens
	}

	return &Resolution{
		Sentences:         resolved,
		MissingCharacters: sortedKeys(missing),
		MatchedLemmaIDs:   refs,
	}, nil
}

// collectForms gathers the distinct word-token texts and each of their
// characters, so the fallback path never needs a second query.
func collectForms(sentences [][]textseg.Piece) []string {
	seen := make(map[string]struct{})
	var forms []string

	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			forms = append(forms, s)
		}
	}

	for _, pieces := range sentences {
		for _, p := range pieces {
			if p.Kind != domain.TokenKindWord {
				continue
			}
			add(p.Text)
			for _, ch := range p.Text {
				add(string(ch))
			}
		}
	}

	return forms
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
