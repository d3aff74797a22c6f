package moderation

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

// TestDiscordSanctionerSatisfiesSanctioner verifies the session-backed
// sanctioner plugs into the engine (compile-time check)
func TestDiscordSanctionerSatisfiesSanctioner(t *testing.T) {
	var _ Sanctioner = (*DiscordSanctioner)(nil)

	t.Log("✅ DiscordSanctioner implements Sanctioner")
}

// TestSanctionerSessionMethods verifies the discordgo methods the sanctioner
// and the timeout action rely on exist with the expected signatures
// (compile-time check)
func TestSanctionerSessionMethods(t *testing.T) {
	type timeoutFunc func(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error
	type banFunc func(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error

	var _ timeoutFunc = (*discordgo.Session)(nil).GuildMemberTimeout
	var _ banFunc = (*discordgo.Session)(nil).GuildBanCreateWithReason

	t.Log("✅ Session moderation methods exist with the expected signatures")
}
