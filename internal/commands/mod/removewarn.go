package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"go.mongodb.org/mongo-driver/mongo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).WithAutoComplete(removeWarnAutoComplete).RequiresDatabase()
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		// 1. Obtener argumentos
		targetUser := ctx.GetUserOption("usuario")
		warnID := ctx.GetStringOption("id")

		if targetUser == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario válido.")
			return
		}

		if warnID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar el ID de la advertencia.")
			return
		}

		// 2. Feedback inicial
		embedProcess := &discordgo.MessageEmbed{
			Title:       "🗑️ Eliminando advertencia...",
			Description: fmt.Sprintf("Eliminando advertencia de **%s**...\n\nEspere un momento...", targetUser.String()),
			Color:       0xFFFF00, // Yellow
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		if err := ctx.ReplyEmbed(embedProcess); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial: %v", err), "CMD-RemoveWarn")
			return
		}

		// 3. Buscar la advertencia para conservar la razón original
		records, err := store.ListForUser(context.Background(), ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB RemoveWarn: %v", err), "CMD-RemoveWarn")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}

		if len(records) == 0 {
			ctx.EditReply("❌ El usuario no tiene advertencias.")
			return
		}

		var removed *models.WarnRecord
		for i := range records {
			if records[i].ID == warnID {
				removed = &records[i]
				break
			}
		}
		if removed == nil {
			ctx.EditReply("❌ No se encontró una advertencia con ese ID.")
			return
		}

		// 4. Eliminar de la DB
		if err := store.Remove(context.Background(), ctx.Interaction.GuildID, warnID); err != nil {
			if err == mongo.ErrNoDocuments {
				ctx.EditReply("❌ No se encontró una advertencia con ese ID.")
				return
			}
			logger.Error(fmt.Sprintf("Error guardando RemoveWarn: %v", err), "CMD-RemoveWarn")
			embedError := &discordgo.MessageEmbed{
				Title:       "❌ Error al eliminar advertencia",
				Description: fmt.Sprintf("No se pudo eliminar la advertencia.\nError: `%v`", err),
				Color:       0xFF0000,
			}
			ctx.EditReplyEmbed(embedError)
			return
		}

		if hub != nil {
			hub.Publish(models.ModLogEvent{
				GuildID:  ctx.Interaction.GuildID,
				Action:   "removewarn",
				UserID:   targetUser.ID,
				ActorID:  ctx.User().ID,
				ActorTag: ctx.User().String(),
				Detail:   removed.Reason,
			})
		}

		// 5. Embed de Éxito
		embedSuccess := &discordgo.MessageEmbed{
			Title:       "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("La advertencia de **%s** ha sido eliminada.\n\n**Razón original:** %s\n**ID:** `%s`", targetUser.String(), removed.Reason, warnID),
			Color:       0x00FF00, // Green
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.EditReplyEmbed(embedSuccess)

		// 6. Enviar MD al usuario
		embedDM := &discordgo.MessageEmbed{
			Title: "ℹ - Advertencia eliminada",
			Color: 0x00FF00,
			Description: fmt.Sprintf(
				"⚒ - **Servidor:** %s (%s)\n"+
					"🗑 ️ - **Advertencia eliminada:** %s\n\n"+
					"🕒 - **Fecha:** <t:%d:F>",
				ctx.Guild().Name, ctx.Interaction.GuildID, removed.Reason, time.Now().Unix(),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by PancyStudios",
				IconURL: ctx.Client.Session.State.User.AvatarURL(""),
			},
		}

		userChannel, err := ctx.Session.UserChannelCreate(targetUser.ID)
		if err == nil {
			_, _ = ctx.Session.ChannelMessageSendEmbed(userChannel.ID, embedDM)
		} else {
			// Notificar fallo de MD
			msg, _ := ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID, fmt.Sprintf("ℹ️ No se pudo enviar un mensaje directo a **%s**.", targetUser.String()))
			go func() {
				time.Sleep(5 * time.Second)
				err := ctx.Session.ChannelMessageDelete(ctx.Interaction.ChannelID, msg.ID)
				if err != nil {
					return
				}
			}()
		}
	}()

	return nil
}

// removeWarnAutoComplete handles autocomplete for the removewarn command
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			return
		}

		records, err := store.ListForUser(context.Background(), ctx.Interaction.GuildID, targetUser.ID)
		if err != nil || len(records) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for i, rec := range records {
			if i >= 25 {
				break
			}
			name := fmt.Sprintf("ID: %s - Razón: %s", rec.ID, rec.Reason)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: rec.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
