package moderation

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordSanctioner applies sanctions through a discordgo session.
type DiscordSanctioner struct {
	session *discordgo.Session
}

// NewDiscordSanctioner creates a Sanctioner backed by the bot session
func NewDiscordSanctioner(session *discordgo.Session) *DiscordSanctioner {
	return &DiscordSanctioner{session: session}
}

// ApplyTimeout silences the member until now+duration
func (s *DiscordSanctioner) ApplyTimeout(guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	return s.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
}

// ApplyBan bans the member permanently, deleting no message history
func (s *DiscordSanctioner) ApplyBan(guildID, userID, reason string) error {
	return s.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}
