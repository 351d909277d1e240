package generator

import "testing"

func TestPromptBuilder(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{
			name:      "joins in order",
			fragments: []string{"jazz", "110 bpm", "piano trio"},
			want:      "jazz, 110 bpm, piano trio",
		},
		{
			name:      "single fragment",
			fragments: []string{"ambient"},
			want:      "ambient",
		},
		{
			name:      "empty fragments dropped",
			fragments: []string{"techno", "", "  ", "acid"},
			want:      "techno, acid",
		},
		{
			name:      "whitespace trimmed",
			fragments: []string{"  lofi  ", "dusty"},
			want:      "lofi, dusty",
		},
		{
			name:      "no fragments",
			fragments: nil,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewPromptBuilder()
			b.AddAll(tt.fragments...)
			if got := b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPromptBuilder_Chaining(t *testing.T) {
	got := NewPromptBuilder().
		Add("orchestral").
		Add("epic").
		Add("90 bpm").
		String()

	want := "orchestral, epic, 90 bpm"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPromptBuilder_Len(t *testing.T) {
	b := NewPromptBuilder()
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}

	b.AddAll("a", "", "b")
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}
