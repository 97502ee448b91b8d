package translit

import "testing"

func TestRune(t *testing.T) {
	tests := []struct {
		name string
		in   rune
		want string
	}{
		{"ascii letter", 'A', "A"},
		{"ascii digit", '7', "7"},
		{"small a umlaut", 'ä', "ae"},
		{"small o umlaut", 'ö', "oe"},
		{"small u umlaut", 'ü', "ue"},
		{"capital a umlaut", 'Ä', "Ae"},
		{"sharp s", 'ß', "ss"},
		{"acute accent collapses to base", 'é', "e"},
		{"tilde collapses to base", 'ñ', "n"},
		{"diaeresis on non-aou keeps base only", 'ë', "e"},
		{"unmappable symbol", '☃', "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rune(tt.in); got != tt.want {
				t.Errorf("Rune(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRuneIsDeterministic(t *testing.T) {
	for _, r := range []rune{'ä', 'ß', '☃', 'x'} {
		first := Rune(r)
		for i := 0; i < 3; i++ {
			if got := Rune(r); got != first {
				t.Fatalf("Rune(%q) not deterministic: %q then %q", r, first, got)
			}
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"München", "Muenchen"},
		{"Straße", "Strasse"},
		{"/abs/Größe.ts", "/abs/Groesse.ts"},
		{"plain.txt", "plain.txt"},
	}

	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
