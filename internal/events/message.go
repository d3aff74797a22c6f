// Package events provides event handlers for message events
package events

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/internal/filter"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onMessageCreate)
	client.Session.AddHandler(onMessageUpdate)
	client.Session.AddHandler(onMessageDelete)
}

// onMessageCreate is called when a new message is created
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignorar mensajes de bots y mensajes directos
	if m.Author.Bot || m.GuildID == "" {
		return
	}

	settings, err := database.GetGuildSettings(m.GuildID)
	if err != nil {
		settings = nil
	}

	result := filter.Evaluate(settings, m.Content)
	if result.Verdict == filter.Allow {
		respondToMention(s, m)
		return
	}

	// El mensaje viola las reglas: borrarlo siempre
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo borrar el mensaje filtrado %s: %v", m.ID, err), "Filter")
	}

	if result.Verdict != filter.DeleteAndWarn {
		return
	}

	// Advertencia automática: sin moderador, el filtro es el actor
	go func() {
		defer errors.RecoverMiddleware()()

		res, err := engine.RecordWarning(context.Background(), m.GuildID, m.Author.ID, result.Reason, nil)
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando advertencia automática: %v", err), "Filter")
			return
		}

		if hub != nil {
			hub.Publish(models.ModLogEvent{
				GuildID: m.GuildID,
				Action:  "warn",
				UserID:  m.Author.ID,
				Detail:  result.Reason,
			})
		}

		if _, err := s.ChannelMessageSend(m.ChannelID, res.Message()); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo anunciar la advertencia automática: %v", err), "Filter")
		}
	}()
}

// respondToMention greets users who mention the bot directly
func respondToMention(s *discordgo.Session, m *discordgo.MessageCreate) {
	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			embed := &discordgo.MessageEmbed{
				Title:       "👋 ¡Hola!",
				Description: "Usa comandos **slash (/)** para interactuar conmigo.\nEscribe `/utils help` para ver todos los comandos disponibles.",
				Color:       0x3498db,
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:   "🔧 Moderación",
						Value:  "`/mod` - Comandos de moderación",
						Inline: true,
					},
					{
						Name:   "✅ Verificación",
						Value:  "`/verify` - Verifícate en el servidor",
						Inline: true,
					},
					{
						Name:   "❓ Ayuda",
						Value:  "`/utils help` - Ver todos los comandos",
						Inline: true,
					},
				},
			}
			_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
			if err != nil {
				logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
			}
			break
		}
	}
}

// onMessageUpdate is called when a message is edited
func onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	// Los filtros también aplican a mensajes editados
	settings, err := database.GetGuildSettings(m.GuildID)
	if err != nil {
		return
	}

	result := filter.Evaluate(settings, m.Content)
	if result.Verdict == filter.Allow {
		return
	}

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo borrar el mensaje editado %s: %v", m.ID, err), "Filter")
	}
}

// onMessageDelete is called when a message is deleted
func onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	logger.Debug(fmt.Sprintf("🗑️ Mensaje eliminado: ID %s en canal %s",
		m.ID, m.ChannelID), "Message")
}
