package image

import "testing"

func TestParseBackendToken(t *testing.T) {
	cases := []struct {
		token string
		want  Backend
	}{
		{"ArrayImg", ArrayBackend},
		{"PlanarImg", PlanarBackend},
	}
	for _, c := range cases {
		got, err := ParseBackendToken(c.token)
		if err != nil {
			t.Fatalf("ParseBackendToken(%q): %v", c.token, err)
		}
		if got != c.want {
			t.Fatalf("ParseBackendToken(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestParseBackendTokenRejectsMissingImgSubstring(t *testing.T) {
	if _, err := ParseBackendToken("Array"); err == nil {
		t.Fatal("expected error for token missing Img substring")
	}
}

func TestBackendTokenRoundTrip(t *testing.T) {
	for _, b := range []Backend{ArrayBackend, PlanarBackend} {
		got, err := ParseBackendToken(b.Token())
		if err != nil {
			t.Fatalf("ParseBackendToken(%q): %v", b.Token(), err)
		}
		if got != b {
			t.Fatalf("round trip %v -> %q -> %v", b, b.Token(), got)
		}
	}
}
