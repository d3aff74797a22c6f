package filter

import (
	"testing"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		settings *models.GuildSettings
		content  string
		want     Verdict
	}{
		{
			name:     "nil settings allow everything",
			settings: nil,
			content:  "hola https://example.com",
			want:     Allow,
		},
		{
			name:     "clean message",
			settings: &models.GuildSettings{BannedWords: []string{"tonto"}, LinkFilter: models.LinkFilterWarn},
			content:  "buenos días a todos",
			want:     Allow,
		},
		{
			name:     "banned word deletes and warns",
			settings: &models.GuildSettings{BannedWords: []string{"tonto"}},
			content:  "eres un TONTO",
			want:     DeleteAndWarn,
		},
		{
			name:     "banned word inside a longer message",
			settings: &models.GuildSettings{BannedWords: []string{"spam"}},
			content:  "vendo spam barato",
			want:     DeleteAndWarn,
		},
		{
			name:     "link with filter off",
			settings: &models.GuildSettings{LinkFilter: models.LinkFilterOff},
			content:  "mira https://example.com",
			want:     Allow,
		},
		{
			name:     "link with delete policy",
			settings: &models.GuildSettings{LinkFilter: models.LinkFilterDelete},
			content:  "mira https://example.com",
			want:     Delete,
		},
		{
			name:     "link with warn policy",
			settings: &models.GuildSettings{LinkFilter: models.LinkFilterWarn},
			content:  "únete a http://spam.example",
			want:     DeleteAndWarn,
		},
		{
			name:     "discord invite counts as link",
			settings: &models.GuildSettings{LinkFilter: models.LinkFilterDelete},
			content:  "entra a discord.gg/abc123",
			want:     Delete,
		},
		{
			name:     "banned word wins over link policy",
			settings: &models.GuildSettings{BannedWords: []string{"estafa"}, LinkFilter: models.LinkFilterDelete},
			content:  "estafa segura en https://example.com",
			want:     DeleteAndWarn,
		},
		{
			name:     "empty banned word entries are ignored",
			settings: &models.GuildSettings{BannedWords: []string{"", "  "}},
			content:  "cualquier cosa",
			want:     Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.settings, tt.content)
			if result.Verdict != tt.want {
				t.Errorf("verdict = %d, want %d", result.Verdict, tt.want)
			}
			if tt.want == DeleteAndWarn && result.Reason == "" {
				t.Error("warn verdicts must carry a reason")
			}
		})
	}
}
