package textseg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchales/huistack-backend/internal/domain"
)

// stubSegmenter returns canned segments regardless of input.
type stubSegmenter struct {
	segments []string
}

func (s *stubSegmenter) Segment(string) []string { return s.segments }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want domain.TokenKind
	}{
		{" ", domain.TokenKindSpace},
		{"\t\n", domain.TokenKindSpace},
		{"，", domain.TokenKindPunct},
		{"...", domain.TokenKindPunct},
		{"“", domain.TokenKindPunct},
		{"42", domain.TokenKindNumber},
		{"2024", domain.TokenKindNumber},
		{"GDP", domain.TokenKindLatin},
		{"abc123", domain.TokenKindLatin},
		{"你好", domain.TokenKindWord},
		{"中", domain.TokenKindWord},
		// Mixed content falls through to word.
		{"3年", domain.TokenKindWord},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestTokenizer_SegmenterPath(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer(&stubSegmenter{segments: []string{"你好", "，", "世界", "！"}})

	pieces := tok.Tokenize("你好，世界！")
	require.Len(t, pieces, 4)
	assert.Equal(t, Piece{Text: "你好", Kind: domain.TokenKindWord}, pieces[0])
	assert.Equal(t, Piece{Text: "，", Kind: domain.TokenKindPunct}, pieces[1])
	assert.Equal(t, Piece{Text: "世界", Kind: domain.TokenKindWord}, pieces[2])
	assert.Equal(t, Piece{Text: "！", Kind: domain.TokenKindPunct}, pieces[3])
}

func TestTokenizer_SegmenterEmptySegmentsDropped(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer(&stubSegmenter{segments: []string{"你好", "", "世界"}})

	pieces := tok.Tokenize("你好世界")
	require.Len(t, pieces, 2)
	assert.Equal(t, "你好", pieces[0].Text)
	assert.Equal(t, "世界", pieces[1].Text)
}

func TestTokenizer_FallbackScanner(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer(nil)

	tests := []struct {
		name string
		text string
		want []Piece
	}{
		{
			name: "cjk runes emitted individually",
			text: "你好",
			want: []Piece{
				{Text: "你", Kind: domain.TokenKindWord},
				{Text: "好", Kind: domain.TokenKindWord},
			},
		},
		{
			name: "ascii alnum run kept together",
			text: "GDP增长3%",
			want: []Piece{
				{Text: "GDP", Kind: domain.TokenKindLatin},
				{Text: "增", Kind: domain.TokenKindWord},
				{Text: "长", Kind: domain.TokenKindWord},
				{Text: "3", Kind: domain.TokenKindNumber},
				{Text: "%", Kind: domain.TokenKindWord},
			},
		},
		{
			name: "whitespace run is one piece",
			text: "a  b",
			want: []Piece{
				{Text: "a", Kind: domain.TokenKindLatin},
				{Text: "  ", Kind: domain.TokenKindSpace},
				{Text: "b", Kind: domain.TokenKindLatin},
			},
		},
		{
			name: "punctuation single rune",
			text: "好，好",
			want: []Piece{
				{Text: "好", Kind: domain.TokenKindWord},
				{Text: "，", Kind: domain.TokenKindPunct},
				{Text: "好", Kind: domain.TokenKindWord},
			},
		},
		{
			name: "empty input",
			text: "",
			want: []Piece{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tok.Tokenize(tt.text))
		})
	}
}

// Fallback tokenization partitions the input: concatenating all pieces
// reproduces the original text exactly.
func TestTokenizer_FallbackPartitionsInput(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer(nil)

	inputs := []string{
		"你好，世界！",
		"GDP增长了3个百分点。",
		"mixed ASCII 和 中文 words",
		"……标点——连续·",
	}

	for _, in := range inputs {
		pieces := tok.Tokenize(in)
		var sb strings.Builder
		for _, p := range pieces {
			sb.WriteString(p.Text)
		}
		assert.Equal(t, in, sb.String())
	}
}
