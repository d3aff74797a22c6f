package mqtt

import "testing"

func TestModLogTopic(t *testing.T) {
	tests := []struct {
		guildID string
		want    string
	}{
		{"123456789", "pancyguard/modlog/123456789"},
		{"987", "pancyguard/modlog/987"},
	}

	for _, tt := range tests {
		if got := modLogTopic(tt.guildID); got != tt.want {
			t.Errorf("modLogTopic(%q) = %q, want %q", tt.guildID, got, tt.want)
		}
	}
}
