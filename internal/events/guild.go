// Package events provides event handlers for guild (server) events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onGuildCreate)
	client.Session.AddHandler(onGuildDelete)
}

// onGuildCreate is called when the bot joins a server (and once per guild at
// startup). The settings bootstrap runs always; the greeting only for fresh joins.
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if _, err := database.EnsureGuildSettings(g.ID, g.Name, g.OwnerID); err != nil {
		logger.Error(fmt.Sprintf("Error registrando servidor %s: %v", g.ID, err), "Guild")
	}

	Join := g.JoinedAt
	if Join.Compare(time.Now().Add(-10*time.Second)) < 0 {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	// Enviar mensaje de bienvenida al canal del sistema
	if g.SystemChannelID != "" {
		welcomeEmbed := &discordgo.MessageEmbed{
			Title:       "¡Gracias por agregarme! 🎉",
			Description: "Hola, soy **PancyGuard**. Usa `/utils help` para ver todos mis comandos y configura el servidor desde el panel web.",
			Color:       0x00ff00,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "🔧 Moderación",
					Value:  "Usa `/mod` para moderar",
					Inline: true,
				},
				{
					Name:   "✅ Verificación",
					Value:  "Los miembros usan `/verify`",
					Inline: true,
				},
				{
					Name:   "❓ Ayuda",
					Value:  "Usa `/utils help` para más información",
					Inline: true,
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "¡Disfruta de PancyGuard!",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		_, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed)
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
