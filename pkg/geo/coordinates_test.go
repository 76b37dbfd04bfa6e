package geo

import "testing"

func TestParseValid(t *testing.T) {
	t.Parallel()

	coords, err := Parse("19.4326, -99.1332")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if coords.Latitude != 19.4326 || coords.Longitude != -99.1332 {
		t.Fatalf("unexpected coords: %+v", coords)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"solo-texto",
		"19.43",
		"19.43,-99.13,5",
		"91,-99.13",
		"-91,-99.13",
		"19.43,181",
		"19.43,-181",
		"NaN,-99.13",
		"Inf,0",
	}
	for _, raw := range cases {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected %q to fail", raw)
		}
		if IsValid(raw) {
			t.Fatalf("expected %q to be invalid", raw)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	coords, err := Parse("19.4326,-99.1332")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again, err := Parse(coords.String())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if again != coords {
		t.Fatalf("round trip mismatch: %+v != %+v", again, coords)
	}
}
