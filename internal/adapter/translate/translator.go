// Package translate provides the machine-translation collaborator.
// Translation is best-effort everywhere it is used: an empty result is
// "no translation available", not an error.
package translate

import "context"

// Translator translates text between language tags.
// Returns ("", nil) when no translation is available.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
