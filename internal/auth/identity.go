package auth

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedCallback is returned when an OAuth callback payload cannot
// be decoded into a valid Identity. The caller must leave any existing
// identity state untouched.
var ErrMalformedCallback = errors.New("auth: malformed callback payload")

// Identity represents a linked external social account. It contains the
// provider's identity claims plus the durable credential pair usable for
// user-context write actions.
//
// The token/secret pair travels to the client embedded in the callback
// redirect URL and is mirrored into client storage. Anything with URL
// or storage access can read a write-capable credential.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
	TokenSecret string `json:"tokenSecret"`
}

// DecodeIdentity parses an identity payload at a trust boundary (OAuth
// callback query parameter, persisted storage entry). Any decode or
// validation failure reports ErrMalformedCallback.
func DecodeIdentity(data []byte) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &id, nil
}

// Validate checks the claims an Identity cannot exist without. The
// credential halves are not required here: a read-only profile payload
// is still a usable identity for display purposes.
func (i *Identity) Validate() error {
	if i.ID == "" || i.Username == "" {
		return fmt.Errorf("%w: missing id or username", ErrMalformedCallback)
	}
	return nil
}

// Encode serializes the Identity the way the callback redirect and the
// client store expect it.
func (i *Identity) Encode() ([]byte, error) {
	return json.Marshal(i)
}
