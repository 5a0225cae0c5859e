package textutil

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "accented", in: "Café", want: "cafe"},
		{name: "plain", in: "cafe", want: "cafe"},
		{name: "empty", in: "", want: ""},
		{name: "mixed case accents", in: "Crème Brûlée", want: "creme brulee"},
		{name: "cedilla", in: "Français", want: "francais"},
		{name: "already normalized", in: "pomme de terre", want: "pomme de terre"},
		{name: "digits and punctuation", in: "Œuf n°2 !", want: "œuf n°2 !"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeStableForMatching(t *testing.T) {
	// Write path and read path must agree on the key.
	if Normalize("Café") != Normalize("cafe") {
		t.Errorf("normalized forms differ: %q vs %q", Normalize("Café"), Normalize("cafe"))
	}
}
