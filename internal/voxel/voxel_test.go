package voxel

import "testing"

func TestParseTokenOrderSensitivity(t *testing.T) {
	cases := []struct {
		token string
		want  Type
	}{
		{"UnsignedShortType", UnsignedShort},
		{"ShortType", Short},
		{"UnsignedIntType", UnsignedInt},
		{"IntType", Int},
		{"UnsignedLongType", UnsignedLong},
		{"LongType", Long},
		{"UnsignedByteType", UnsignedByte},
		{"ByteType", Byte},
		{"FloatType", Float},
		{"DoubleType", Double},
	}
	for _, c := range cases {
		got, err := ParseToken(c.token)
		if err != nil {
			t.Fatalf("ParseToken(%q): %v", c.token, err)
		}
		if got != c.want {
			t.Fatalf("ParseToken(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestParseTokenRejectsMissingTypeSuffix(t *testing.T) {
	if _, err := ParseToken("UnsignedShort"); err == nil {
		t.Fatal("expected error for token missing Type suffix")
	}
}

func TestParseTokenRejectsUnknown(t *testing.T) {
	if _, err := ParseToken("FooType"); err == nil {
		t.Fatal("expected error for unknown voxel type token")
	}
}

func TestElementSizes(t *testing.T) {
	cases := map[Type]int{
		Byte: 1, UnsignedByte: 1,
		Short: 2, UnsignedShort: 2,
		Int: 4, UnsignedInt: 4,
		Long: 8, UnsignedLong: 8,
		Float: 4, Double: 8,
	}
	for typ, want := range cases {
		if got := typ.ElementSize(); got != want {
			t.Fatalf("%v.ElementSize() = %d, want %d", typ, got, want)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for typ := Byte; typ <= Double; typ++ {
		tok := typ.Token()
		got, err := ParseToken(tok)
		if err != nil {
			t.Fatalf("ParseToken(%q): %v", tok, err)
		}
		if got != typ {
			t.Fatalf("round trip %v -> %q -> %v", typ, tok, got)
		}
	}
}
