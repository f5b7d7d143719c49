package markup_test

import (
	"regexp"
	"testing"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultTags = []string{"wobble", "trigger"}

type want struct {
	scope string
	text  string
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tags  []string
		want  []want
	}{
		{
			name:  "Empty input",
			input: "",
			tags:  nil,
			want:  []want{{"", ""}},
		},
		{
			name:  "Untagged input",
			input: "Hello World!",
			tags:  nil,
			want:  []want{{"", "Hello World!"}},
		},
		{
			name:  "Single block",
			input: "<wobble>Hello World!</wobble>",
			tags:  defaultTags,
			want:  []want{{"wobble", "Hello World!"}},
		},
		{
			name:  "Nested block",
			input: "<wobble><trigger>Hello World!</trigger></wobble>",
			tags:  defaultTags,
			want:  []want{{"wobbletrigger", "Hello World!"}},
		},
		{
			name:  "Universal close",
			input: "<wobble>Hello</><trigger>World!</>",
			tags:  defaultTags,
			want:  []want{{"wobble", "Hello"}, {"trigger", "World!"}},
		},
		{
			name:  "Leading plain text",
			input: "Hello <trigger>World!</trigger>",
			tags:  defaultTags,
			want:  []want{{"", "Hello "}, {"trigger", "World!"}},
		},
		{
			name:  "Plain text between blocks",
			input: "<wobble>Hello</wobble> there <trigger>World!</trigger>",
			tags:  defaultTags,
			want:  []want{{"wobble", "Hello"}, {"", " there "}, {"trigger", "World!"}},
		},
		{
			name:  "Trailing plain text",
			input: "<wobble>Hello</wobble> World",
			tags:  defaultTags,
			want:  []want{{"wobble", "Hello"}, {"", " World"}},
		},
		{
			name:  "Unknown tags are plain text",
			input: "<wobble>Hello World!</wobble>",
			tags:  []string{"trigger"},
			want:  []want{{"", "<wobble>Hello World!</wobble>"}},
		},
		{
			name:  "Case-insensitive match keeps declared casing",
			input: "<wObBle>Hello World!</WObble>",
			tags:  []string{"wobble"},
			want:  []want{{"wobble", "Hello World!"}},
		},
		{
			name:  "Nested block splits surrounding text",
			input: "<wobble>a<trigger>b</trigger>c</wobble>",
			tags:  defaultTags,
			want:  []want{{"wobble", "a"}, {"wobbletrigger", "b"}, {"wobble", "c"}},
		},
		{
			name:  "Universal close after nested text",
			input: "<wobble>a<trigger>b</>c",
			tags:  defaultTags,
			want:  []want{{"wobble", "a"}, {"wobbletrigger", "b"}, {"", "c"}},
		},
		{
			name:  "Empty nested block",
			input: "<wobble>a<trigger></trigger></wobble>",
			tags:  defaultTags,
			want:  []want{{"wobble", "a"}},
		},
		{
			name:  "Empty block",
			input: "<wobble></wobble>",
			tags:  defaultTags,
			want:  []want{{"wobble", ""}},
		},
		{
			name:  "Multibyte text",
			input: "<wobble>héllo</wobble>✓",
			tags:  defaultTags,
			want:  []want{{"wobble", "héllo"}, {"", "✓"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := markup.Parse(tt.input, tt.tags)
			require.NoError(t, err)

			got := make([]want, len(tokens))
			for i, tok := range tokens {
				got[i] = want{tok.Scope(), tok.Text}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"Close without open", "Hello World!</wobble>", markup.ErrUnmatchedClose},
		{"Universal close without open", "Hello World!</>", markup.ErrUnmatchedClose},
		{"Mismatched close", "<wobble>Hello</trigger>", markup.ErrUnmatchedClose},
		{"Crossed nesting", "<wobble><trigger>x</wobble></trigger>", markup.ErrUnmatchedClose},
		{"Unterminated", "<wobble>Hello", markup.ErrUnterminatedTag},
		{"Unterminated nested", "<wobble><trigger>Hello</trigger>", markup.ErrUnterminatedTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := markup.Parse(tt.input, defaultTags)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var syntaxErr *markup.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.GreaterOrEqual(t, syntaxErr.Offset, 0)
			assert.LessOrEqual(t, syntaxErr.Offset, len(tt.input))
		})
	}
}

func TestParser_TextIsMarkupFree(t *testing.T) {
	strip := regexp.MustCompile(`(?i)</?(wobble|trigger)?>`)
	inputs := []string{
		"",
		"plain",
		"<wobble>a</wobble>b<trigger>c</>",
		"x<wobble>y<trigger>z</trigger>w</wobble>v",
		"<TRIGGER>loud</trigger> quiet",
	}

	for _, in := range inputs {
		p := markup.NewParser(in, defaultTags)
		var text string
		for tok, err := range p.Tokens() {
			require.NoError(t, err, in)
			text += tok.Text
		}
		assert.Equal(t, strip.ReplaceAllString(in, ""), text, in)
		assert.Equal(t, p.Pushes(), p.Pops(), in)
	}
}

func TestParser_SingleUse(t *testing.T) {
	p := markup.NewParser("<wobble>a</wobble>", defaultTags)

	first := 0
	for range p.Tokens() {
		first++
	}
	second := 0
	for range p.Tokens() {
		second++
	}

	assert.Equal(t, 1, first)
	assert.Zero(t, second)
}

func TestParser_StopsEarly(t *testing.T) {
	p := markup.NewParser("a<wobble>b</wobble>c<trigger>d</trigger>", defaultTags)

	var got []domain.Token
	for tok, err := range p.Tokens() {
		require.NoError(t, err)
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	require.Len(t, got, 2)
	assert.Equal(t, []string{"wobble"}, got[1].Tags)
}
