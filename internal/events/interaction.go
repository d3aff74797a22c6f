// Package events provides event handlers for interaction events
// (buttons and select menus; slash commands go through the CommandHandler).
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterInteractionEvents registers all interaction-related event handlers
func RegisterInteractionEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onInteractionCreate)
}

// onInteractionCreate is called when an interaction is created (buttons, menus, modals, etc.)
// Note: Slash commands are already handled by the CommandHandler
func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	logger.Debug(fmt.Sprintf("🔘 Componente clickeado: %s", customID), "Interaction")

	switch customID {
	case "verify_button":
		handleVerifyButton(s, i)
	default:
		logger.Debug(fmt.Sprintf("Componente no manejado: %s", customID), "Interaction")
	}
}

// handleVerifyButton grants the configured verification role, same flow as /verify
func handleVerifyButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	reply := func(content string) {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error respondiendo interacción: %v", err), "Interaction")
		}
	}

	if i.Member == nil {
		reply("❌ Este botón solo funciona dentro de un servidor.")
		return
	}

	settings, err := database.GetGuildSettings(i.GuildID)
	if err != nil || settings.VerificationRole == "" {
		reply("ℹ️ Este servidor no tiene configurado un rol de verificación.")
		return
	}

	for _, roleID := range i.Member.Roles {
		if roleID == settings.VerificationRole {
			reply("✅ Ya estás verificado/a.")
			return
		}
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, settings.VerificationRole); err != nil {
		logger.Error(fmt.Sprintf("Error asignando rol de verificación: %v", err), "Interaction")
		reply("❌ No se pudo asignar el rol de verificación. Avisa a un moderador.")
		return
	}

	reply("✅ ¡Verificación completada! Ya tienes acceso al servidor. 🎉")
}
