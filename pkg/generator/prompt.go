package generator

import "strings"

// PromptBuilder assembles a generation prompt from ordered text
// fragments. Fragments are collected into a slice and joined once,
// instead of repeated string concatenation on the hot path.
type PromptBuilder struct {
	parts []string
}

// NewPromptBuilder returns an empty builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Add appends one fragment. Empty or whitespace-only fragments are
// dropped so optional preset fields never leave holes in the prompt.
func (b *PromptBuilder) Add(fragment string) *PromptBuilder {
	fragment = strings.TrimSpace(fragment)
	if fragment != "" {
		b.parts = append(b.parts, fragment)
	}
	return b
}

// AddAll appends fragments in order.
func (b *PromptBuilder) AddAll(fragments ...string) *PromptBuilder {
	for _, f := range fragments {
		b.Add(f)
	}
	return b
}

// Len returns the number of collected fragments.
func (b *PromptBuilder) Len() int {
	return len(b.parts)
}

// String joins the fragments with ", " in insertion order.
func (b *PromptBuilder) String() string {
	return strings.Join(b.parts, ", ")
}
