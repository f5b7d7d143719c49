package domain

import "strings"

// Token is a contiguous run of plain text together with the tags that were open
// around it, in the order they were encountered.
type Token struct {
	Tags []string
	Text string
}

// Scope returns the concatenation of all tag names of the token.
// An untagged token has an empty scope.
func (t Token) Scope() string {
	return strings.Join(t.Tags, "")
}

// Untagged reports whether the token carries no tags.
func (t Token) Untagged() bool {
	return len(t.Tags) == 0
}
