package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim", "  Jane Doe  ", "Jane Doe"},
		{"collapse inner whitespace", "Jane \t\n  Doe", "Jane Doe"},
		{"empty", "", ""},
		{"whitespace only", " \t ", ""},
		{"unicode kept", "  Zoë   Ångström ", "Zoë Ångström"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Home  Cleaning "); got != "home cleaning" {
		t.Errorf("NormalizeLabel() = %q", got)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "  Great job!\nWould book again.\x00  "
	want := "Great job!\nWould book again."
	if got := NormalizeText(in); got != want {
		t.Errorf("NormalizeText() = %q, want %q", got, want)
	}
}
