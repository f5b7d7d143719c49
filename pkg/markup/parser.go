package markup

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/quill/pkg/domain"
)

const universalClose = "</>"

// Parser is a single-use scanner over one markup string.
type Parser struct {
	input string
	tags  []string

	pos     int
	used    bool
	pushes  int
	pops    int
	emitted int
	// emitted count when the outermost open block started
	blockStart int

	open    []string // open tag names, innermost last
	pending strings.Builder
}

// NewParser creates a parser for input recognising the given tag names.
func NewParser(input string, tags []string) *Parser {
	return &Parser{
		input: input,
		tags:  slices.Clone(tags),
	}
}

// Parse tokenizes input in one call.
func Parse(input string, tags []string) ([]domain.Token, error) {
	var out []domain.Token
	for tok, err := range NewParser(input, tags).Tokens() {
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

// Pushes returns how many open tags have been pushed so far.
func (p *Parser) Pushes() int { return p.pushes }

// Pops returns how many open tags have been successfully closed so far.
func (p *Parser) Pops() int { return p.pops }

// Tokens returns the lazy token sequence. A parse error is yielded once as the
// last element. The sequence can only be ranged over once; later calls yield nothing.
func (p *Parser) Tokens() iter.Seq2[domain.Token, error] {
	return func(yield func(domain.Token, error) bool) {
		if p.used {
			return
		}
		p.used = true

		for p.pos < len(p.input) {
			tok, ok, err := p.step()
			if err != nil {
				yield(domain.Token{}, err)
				return
			}
			if ok && !yield(tok, nil) {
				return
			}
		}

		if len(p.open) > 0 {
			yield(domain.Token{}, &SyntaxError{
				Offset: len(p.input),
				Tag:    p.open[len(p.open)-1],
				Err:    ErrUnterminatedTag,
			})
			return
		}

		if p.pending.Len() > 0 || p.emitted == 0 {
			yield(p.flush(nil), nil)
		}
	}
}

// step consumes one tag or one rune and reports a token when a tag boundary
// ends a run of text. Each run is tagged with the tags open around it, so text
// outside a nested block never carries the inner tags.
func (p *Parser) step() (domain.Token, bool, error) {
	rest := p.input[p.pos:]
	if rest[0] != '<' {
		p.consumeRune()
		return domain.Token{}, false, nil
	}

	if name, ok := p.matchTag(rest, "<", ">"); ok {
		var tok domain.Token
		flushed := false
		if p.pending.Len() > 0 {
			tok, flushed = p.flush(p.open), true
		}
		if len(p.open) == 0 {
			p.blockStart = p.emitted
		}
		p.open = append(p.open, name)
		p.pushes++
		p.pos += len(name) + 2
		return tok, flushed, nil
	}

	if hasPrefixFold(rest, universalClose) {
		if len(p.open) == 0 {
			return domain.Token{}, false, &SyntaxError{Offset: p.pos, Tag: universalClose, Err: ErrUnmatchedClose}
		}
		p.pops += len(p.open)
		p.pos += len(universalClose)
		tok, flushed := p.closeRun(true)
		p.open = p.open[:0]
		return tok, flushed, nil
	}

	if name, ok := p.matchTag(rest, "</", ">"); ok {
		closing := "</" + name + ">"
		if len(p.open) == 0 || !strings.EqualFold(p.open[len(p.open)-1], name) {
			return domain.Token{}, false, &SyntaxError{Offset: p.pos, Tag: closing, Err: ErrUnmatchedClose}
		}
		p.pops++
		p.pos += len(closing)
		tok, flushed := p.closeRun(len(p.open) == 1)
		p.open = p.open[:len(p.open)-1]
		return tok, flushed, nil
	}

	p.consumeRune()
	return domain.Token{}, false, nil
}

// closeRun flushes the pending text under the current tags. An outermost block
// that produced no token at all still yields one, possibly empty.
func (p *Parser) closeRun(outermost bool) (domain.Token, bool) {
	if p.pending.Len() > 0 || (outermost && p.emitted == p.blockStart) {
		return p.flush(p.open), true
	}
	return domain.Token{}, false
}

// matchTag returns the known tag (declared casing) written as open+name+end at
// the start of s.
func (p *Parser) matchTag(s, open, end string) (string, bool) {
	for _, name := range p.tags {
		if name == "" {
			continue
		}
		if hasPrefixFold(s, open+name+end) {
			return name, true
		}
	}
	return "", false
}

func (p *Parser) consumeRune() {
	_, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pending.WriteString(p.input[p.pos : p.pos+size])
	p.pos += size
}

func (p *Parser) flush(scope []string) domain.Token {
	tok := domain.Token{Text: p.pending.String()}
	if len(scope) > 0 {
		tok.Tags = slices.Clone(scope)
	}
	p.pending.Reset()
	p.emitted++
	return tok
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
