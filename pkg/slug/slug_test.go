package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "accented category name", input: "Aromáticas", want: "aromaticas"},
		{name: "punctuation and padding", input: "  Hello, World!  ", want: "hello-world"},
		{name: "empty", input: "", want: ""},
		{name: "punctuation only", input: "!!! ... ---", want: ""},
		{name: "multiple interior runs", input: "Velas & Aromas / Hogar", want: "velas-aromas-hogar"},
		{name: "enye", input: "Pequeños Regalos", want: "pequenos-regalos"},
		{name: "digits survive", input: "Pack 3 Velas", want: "pack-3-velas"},
		{name: "already clean", input: "decoracion", want: "decoracion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.want {
				t.Fatalf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeIsDeterministic(t *testing.T) {
	first := Make("Día del Niño")
	for i := 0; i < 5; i++ {
		if got := Make("Día del Niño"); got != first {
			t.Fatalf("expected stable output, got %q then %q", first, got)
		}
	}
	if first != "dia-del-nino" {
		t.Fatalf("unexpected slug %q", first)
	}
}
