// Package events provides event handlers for member events
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onGuildMemberAdd)
	client.Session.AddHandler(onGuildMemberRemove)
	client.Session.AddHandler(onGuildMemberUpdate)
}

// onGuildMemberAdd is called when a new member joins the server
func onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s",
		m.User.String(), m.GuildID), "Member")

	guild, err := s.Guild(m.GuildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error obteniendo servidor: %v", err), "Member")
		return
	}

	settings, err := database.GetGuildSettings(m.GuildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Servidor %s sin configuración, se usa la de defecto", m.GuildID), "Member")
		settings = nil
	}

	// Canal de bienvenida configurado, con el canal del sistema como fallback
	welcomeChannel := guild.SystemChannelID
	welcomeMessage := "¡Bienvenido/a al servidor! 🎉"
	if settings != nil {
		if settings.WelcomeChannel != "" {
			welcomeChannel = settings.WelcomeChannel
		}
		if settings.WelcomeMessage != "" {
			welcomeMessage = settings.WelcomeMessage
		}
	}

	if welcomeChannel != "" {
		// {user} en el mensaje configurado se sustituye por la mención
		rendered := strings.ReplaceAll(welcomeMessage, "{user}", fmt.Sprintf("<@%s>", m.User.ID))

		welcomeEmbed := &discordgo.MessageEmbed{
			Title:       "¡Bienvenido/a! 🎉",
			Description: fmt.Sprintf("%s\n\nDale la bienvenida a <@%s>. Ahora somos **%d** miembros.", rendered, m.User.ID, guild.MemberCount),
			Color:       0x00ff00,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: m.User.AvatarURL("128"),
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text:    guild.Name,
				IconURL: guild.IconURL("64"),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		_, err := s.ChannelMessageSendEmbed(welcomeChannel, welcomeEmbed)
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Member")
		}
	}

	// Rol automático configurado desde el panel
	if settings != nil && settings.AutoRole != "" {
		if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, settings.AutoRole); err != nil {
			logger.Error(fmt.Sprintf("Error asignando rol automático en %s: %v", m.GuildID, err), "Member")
		} else {
			logger.Debug(fmt.Sprintf("Rol automático asignado a %s en %s", m.User.ID, m.GuildID), "Member")
		}
	}
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	logger.Info(fmt.Sprintf("👋 Adiós: %s salió del servidor %s",
		m.User.String(), m.GuildID), "Member")

	// Enviar mensaje de despedida
	guild, err := s.Guild(m.GuildID)
	if err == nil && guild.SystemChannelID != "" {
		farewellEmbed := &discordgo.MessageEmbed{
			Description: fmt.Sprintf("👋 **%s** ha salido del servidor.\nAhora somos **%d** miembros.",
				m.User.String(), guild.MemberCount),
			Color: 0xe74c3c,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: m.User.AvatarURL("64"),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		_, sendErr := s.ChannelMessageSendEmbed(guild.SystemChannelID, farewellEmbed)
		if sendErr != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de despedida: %v", sendErr), "Member")
		}
	}
}

// onGuildMemberUpdate is called when a member is updated (roles, nickname, etc.)
func onGuildMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	// Solo loguear si hay cambios significativos
	if m.BeforeUpdate != nil {
		// Detectar cambio de nickname
		oldNick := m.BeforeUpdate.Nick
		newNick := m.Nick

		if oldNick != newNick {
			logger.Debug(fmt.Sprintf("✏️ %s cambió nickname: '%s' → '%s'",
				m.User.Username, oldNick, newNick), "Member")
		}

		// Detectar cambio de roles
		if len(m.BeforeUpdate.Roles) != len(m.Roles) {
			logger.Debug(fmt.Sprintf("🎭 Roles actualizados para %s", m.User.Username), "Member")
		}
	}
}
