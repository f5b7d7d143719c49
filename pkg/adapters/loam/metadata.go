package loam

// ScriptMetadata is the frontmatter of a script document.
// Durations are Go duration strings ("40ms", "1.5s").
type ScriptMetadata struct {
	ID           string   `json:"id" mapstructure:"id"`
	Title        string   `json:"title" mapstructure:"title"`
	Mode         string   `json:"mode" mapstructure:"mode"`
	SymbolDelay  string   `json:"symbol_delay" mapstructure:"symbol_delay"`
	MessageDelay string   `json:"message_delay" mapstructure:"message_delay"`
	// Parts overrides the body. When empty, the body is split on blank lines.
	Parts []string `json:"parts" mapstructure:"parts"`
}
