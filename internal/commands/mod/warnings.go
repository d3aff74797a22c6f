package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func warningsHandler(ctx *discord.CommandContext) error {
	// Goroutine para no bloquear el hilo principal
	go func() {
		defer errors.RecoverMiddleware()()

		// 1. Determinar objetivo y permisos
		targetUser := ctx.GetUserOption("usuario")
		isSelf := false

		perms, err := ctx.Session.UserChannelPermissions(ctx.User().ID, ctx.Interaction.ChannelID)
		if err != nil {
			perms = 0
		}
		isModerator := (perms & discordgo.PermissionManageMessages) != 0

		if targetUser == nil {
			targetUser = ctx.User()
			isSelf = true
		}

		// Si intenta ver advertencias de otro y no es moderador
		if !isSelf && !isModerator {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		// 2. Feedback inicial
		embedLoading := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
			Description: "Espere un momento mientras obtenemos las advertencias...\n\n> 💫 - **Cantidad de advertencias:** Desconocido\n> 🕒 - **Fecha de consulta:** Cargando...",
			Color:       0x3498db, // Blue
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by PancyStudios",
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		if err := ctx.ReplyEphemeralEmbed(embedLoading); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial warnings: %v", err), "CMD-Warnings")
			return
		}

		// 3. Consulta DB
		records, err := store.ListForUser(context.Background(), ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Warnings: %v", err), "CMD-Warnings")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}

		if len(records) == 0 {
			embedClear := &discordgo.MessageEmbed{
				Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
				Color:       0x00FF00, // Green
				Description: fmt.Sprintf("No se han encontrado advertencias del usuario en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", time.Now().Unix()),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    "💫 - Developed by PancyStudios",
					IconURL: ctx.Guild().IconURL(""),
				},
			}
			ctx.EditReplyEmbed(embedClear)
			return
		}

		// 4. Construir lista de advertencias
		embedList := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", targetUser.Username, targetUser.ID),
			Color: 0xFFA500, // Orange
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - Developed by PancyStudios",
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		var description string

		for _, rec := range records {
			modName := "Oculto"
			if isModerator {
				switch {
				case rec.IsAutomated():
					modName = "Filtro automático"
				case rec.ActorTag != "":
					modName = rec.ActorTag
				default:
					modName = rec.ActorID
				}
			}

			description += fmt.Sprintf("> **Advertencia:** %s \n> **Moderador:** %s \n> **ID:** %s \n\n", rec.Reason, modName, rec.ID)
		}

		description += fmt.Sprintf("> 💫 - **Cantidad de advertencias:** %d \n> 🕒 - **Fecha de consulta:** <t:%d>", len(records), time.Now().Unix())

		embedList.Description = description

		// 5. Enviar respuesta final
		ctx.EditReplyEmbed(embedList)
	}()

	return nil
}
