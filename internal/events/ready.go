// Package events provides event handlers for the bot
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.Session.AddHandler(onReady)
	client.Session.AddHandler(onDebug)
}

// onReady is called when the bot successfully connects to Discord
func onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Success(fmt.Sprintf("✅ Bot conectado: %s#%s", r.User.Username, r.User.Discriminator), "Ready")
	logger.Info(fmt.Sprintf("📊 Conectado a %d servidores", len(r.Guilds)), "Ready")

	// Establecer estado del bot
	err := s.UpdateGameStatus(0, "🛡️ Protegiendo la comunidad")
	if err != nil {
		logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
	}

	// Backfill: registrar servidores que se unieron mientras el bot estaba offline
	go func() {
		registered := 0
		for _, g := range r.Guilds {
			guild, err := s.Guild(g.ID)
			if err != nil {
				continue
			}
			if _, err := database.EnsureGuildSettings(guild.ID, guild.Name, guild.OwnerID); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo registrar el servidor %s: %v", guild.ID, err), "Ready")
				continue
			}
			registered++
		}
		logger.Info(fmt.Sprintf("Configuración verificada para %d servidores", registered), "Ready")
	}()
}

func onDebug(s *discordgo.Session, log string) {
	logger.Debug(log, "DiscordGO")
}
