package session

import "testing"

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID: %v", err)
		}
		// 32 bytes base64url without padding.
		if len(id) != 43 {
			t.Fatalf("id length = %d, want 43: %q", len(id), id)
		}
		if seen[id] {
			t.Fatal("duplicate session id generated")
		}
		seen[id] = true
	}
}
