package domain

// Message is an immutable cursor over the parts of a monologue.
// Next never mutates the receiver; it returns a new cursor one step forward.
type Message struct {
	parts []Preset
	index int
}

// NewMessage returns a cursor positioned on the first part.
// An empty monologue is rejected with ErrEmptyMonologue.
func NewMessage(parts []Preset) (Message, error) {
	if len(parts) == 0 {
		return Message{}, ErrEmptyMonologue
	}
	owned := make([]Preset, len(parts))
	copy(owned, parts)
	return Message{parts: owned}, nil
}

// Part returns the preset the cursor points at.
func (m Message) Part() Preset {
	if m.index >= len(m.parts) {
		return Preset{}
	}
	return m.parts[m.index]
}

// Index returns the zero-based position of the cursor.
func (m Message) Index() int {
	return m.index
}

// Len returns the number of parts in the monologue.
func (m Message) Len() int {
	return len(m.parts)
}

// Next returns the cursor for the following part, or false when the
// monologue is exhausted.
func (m Message) Next() (Message, bool) {
	if m.index+1 >= len(m.parts) {
		return Message{}, false
	}
	return Message{parts: m.parts, index: m.index + 1}, true
}
