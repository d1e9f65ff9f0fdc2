package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "  report.pdf ", want: "report.pdf"},
		{in: "a/b.pdf", want: "a_b.pdf"},
		{in: `a\b.pdf`, want: "a_b.pdf"},
		{in: ".hidden.pdf", want: "hidden.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "", wantErr: true},
		{in: "...", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
