package auth

import (
	"errors"
	"testing"
)

func TestDecodeIdentity(t *testing.T) {
	payload := `{"id":"123","username":"gorby","displayName":"Gorby Jump","token":"tok","tokenSecret":"sec"}`

	id, err := DecodeIdentity([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeIdentity returned error: %v", err)
	}
	if id.ID != "123" || id.Username != "gorby" || id.DisplayName != "Gorby Jump" {
		t.Errorf("unexpected claims: %+v", id)
	}
	if id.Token != "tok" || id.TokenSecret != "sec" {
		t.Errorf("credential not decoded: %+v", id)
	}
}

func TestDecodeIdentityMalformedJSON(t *testing.T) {
	_, err := DecodeIdentity([]byte(`{"id":"123",`))
	if !errors.Is(err, ErrMalformedCallback) {
		t.Errorf("expected ErrMalformedCallback, got %v", err)
	}
}

func TestDecodeIdentityMissingClaims(t *testing.T) {
	cases := []string{
		`{}`,
		`{"id":"123"}`,
		`{"username":"gorby"}`,
	}
	for _, payload := range cases {
		if _, err := DecodeIdentity([]byte(payload)); !errors.Is(err, ErrMalformedCallback) {
			t.Errorf("payload %s: expected ErrMalformedCallback, got %v", payload, err)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	original := &Identity{
		ID:          "42",
		Username:    "player",
		DisplayName: "Player One",
		Token:       "t",
		TokenSecret: "s",
	}

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeIdentity(data)
	if err != nil {
		t.Fatalf("DecodeIdentity: %v", err)
	}
	if *decoded != *original {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, original)
	}
}
