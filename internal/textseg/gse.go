package textseg

import (
	"fmt"

	"github.com/go-ego/gse"
)

// GseSegmenter wraps the gse dictionary-based segmenter.
type GseSegmenter struct {
	seg gse.Segmenter
}

// NewGseSegmenter loads the embedded Chinese dictionary once and returns
// a ready segmenter. Loading is the expensive part; the returned value is
// safe for concurrent Segment calls.
func NewGseSegmenter() (*GseSegmenter, error) {
	var seg gse.Segmenter
	if err := seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("load segmenter dictionary: %w", err)
	}
	return &GseSegmenter{seg: seg}, nil
}

// Segment splits text at dictionary word boundaries using HMM for
// out-of-vocabulary runs. Punctuation comes back as its own substrings.
func (g *GseSegmenter) Segment(text string) []string {
	return g.seg.Cut(text, true)
}
