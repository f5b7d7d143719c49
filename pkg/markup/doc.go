/*
Package markup tokenizes annotated dialogue strings.

Markup is plain text with tag blocks. A block opens with <name>, where name is
one of the known tags, and closes either with the matching </name> or with the
universal </>, which closes every open tag at once:

	Hello <wobble>World</wobble>!
	<wobble><trigger>nested</trigger></wobble>
	<wave>one</><shake>two</>

Tag names are matched case-insensitively. Anything that is not a known tag,
including unknown <tags>, is plain text.

The parser emits one domain.Token per run of text between tag boundaries.
A token's tags are the tags open around it, outermost first, so in
<wobble>a<trigger>b</trigger>c</wobble> only "b" carries trigger. A block
with no text still yields one empty token.
*/
package markup
