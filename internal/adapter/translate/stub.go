package translate

import "context"

// Stub is a no-op translation provider.
// Always reports "no translation available".
type Stub struct{}

// NewStub creates a new no-op translation provider.
func NewStub() *Stub { return &Stub{} }

// Translate always returns the empty result.
func (s *Stub) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return "", nil
}
