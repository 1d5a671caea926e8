package staff

import "testing"

func TestPlaceholderName(t *testing.T) {
	tests := []struct {
		platform string
		userID   string
		want     string
	}{
		{"slack", "U456", "slack user U456"},
		{"lark", "ou_7d8a3fe1c2b94", "lark user ou_7d8a3"},
		{"sample", "12345678", "sample user 12345678"},
	}
	for _, tt := range tests {
		if got := placeholderName(tt.platform, tt.userID); got != tt.want {
			t.Errorf("placeholderName(%q, %q) = %q, want %q", tt.platform, tt.userID, got, tt.want)
		}
	}
}

func TestPlaceholderEmail(t *testing.T) {
	got := placeholderEmail("slack", "U456")
	if got != "slack.U456@staff.invalid" {
		t.Errorf("placeholderEmail = %q", got)
	}
	// Identical senders must always map to the same synthetic address.
	if again := placeholderEmail("slack", "U456"); again != got {
		t.Errorf("placeholderEmail not deterministic: %q vs %q", got, again)
	}
}
