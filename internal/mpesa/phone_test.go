package mpesa

import "testing"

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"254712345678", "254712345678"},
		{"712345678", "254712345678"},
		{"0712 345-678", "254712345678"},
		{"+254 712 345 678", "254712345678"},
		// Prefix is corrected even for odd lengths; no length validation.
		{"07123", "2547123"},
		{"", "254"},
	}
	for _, tc := range cases {
		if got := FormatPhoneNumber(tc.in); got != tc.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPhoneNumberIdempotent(t *testing.T) {
	inputs := []string{"0712345678", "+254712345678", "712345678", "254700000001"}
	for _, in := range inputs {
		once := FormatPhoneNumber(in)
		twice := FormatPhoneNumber(once)
		if once != twice {
			t.Errorf("FormatPhoneNumber not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
