package doi

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare DOI unchanged", "10.1234/abc.def", "10.1234/abc.def"},
		{"https resolver prefix", "https://doi.org/10.1234/abc.def", "10.1234/abc.def"},
		{"http resolver prefix", "http://doi.org/10.1234/abc.def", "10.1234/abc.def"},
		{"schemeless resolver prefix", "doi.org/10.1234/abc.def", "10.1234/abc.def"},
		{"uppercase", "10.1234/ABC.DEF", "10.1234/abc.def"},
		{"mixed case resolver", "HTTPS://DOI.ORG/10.1234/Abc", "10.1234/abc"},
		{"surrounding whitespace", "  10.1234/abc \n", "10.1234/abc"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://doi.org/10.1234/abc.def",
		"10.1234/abc.def",
		"DOI.ORG/10.5555/x",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
