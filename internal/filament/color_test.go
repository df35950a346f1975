package filament

import "testing"

func TestNormalizeColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase with marker", in: "#ff8800", want: "#FF8800"},
		{name: "no marker", in: "00ff00", want: "#00FF00"},
		{name: "alpha stripped", in: "#FF8800EE", want: "#FF8800"},
		{name: "alpha no marker", in: "ff8800ee", want: "#FF8800"},
		{name: "already canonical", in: "#A1B2C3", want: "#A1B2C3"},
		{name: "doubled marker", in: "##FF0000", want: "#FF0000"},
		{name: "empty", in: "", want: "#000000"},
		{name: "short", in: "#F80", want: "#000000"},
		{name: "non-hex digits", in: "#GGHHII", want: "#000000"},
		{name: "whitespace trimmed", in: "  #abcdef ", want: "#ABCDEF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeColor(tt.in); got != tt.want {
				t.Errorf("NormalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAlphaHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "six digits gain alpha", in: "#0000ff", want: "0000FFFF"},
		{name: "six digits no marker", in: "a1b2c3", want: "A1B2C3FF"},
		{name: "eight digits kept", in: "#AABBCC80", want: "AABBCC80"},
		{name: "doubled marker", in: "##0000ff", want: "0000FFFF"},
		{name: "garbage collapses", in: "not-a-color", want: "000000FF"},
		{name: "empty", in: "", want: "000000FF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AlphaHex(tt.in); got != tt.want {
				t.Errorf("AlphaHex(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
