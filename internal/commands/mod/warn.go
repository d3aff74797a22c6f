// Package mod - /mod warn command
package mod

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/internal/moderation"
	pancyerrors "github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar una razón.")
	}

	if err := ctx.Defer(); err != nil {
		return err
	}

	go func() {
		defer pancyerrors.RecoverMiddleware()()

		moderator := ctx.User()
		actor := &moderation.Actor{ID: moderator.ID, Tag: moderator.String()}

		result, err := engine.RecordWarning(context.Background(), ctx.Interaction.GuildID, user.ID, reason, actor)
		if err != nil {
			var perr *moderation.PersistenceError
			if errors.As(err, &perr) {
				logger.Error(fmt.Sprintf("Error DB Warn: %v", err), "CMD-Warn")
				ctx.EditReply("❌ Error al guardar la advertencia; no se registró nada.")
				return
			}
			ctx.EditReply("❌ No se pudo registrar la advertencia: " + err.Error())
			return
		}

		if hub != nil {
			hub.Publish(models.ModLogEvent{
				GuildID:  ctx.Interaction.GuildID,
				Action:   "warn",
				UserID:   user.ID,
				ActorID:  moderator.ID,
				ActorTag: moderator.String(),
				Detail:   reason,
			})
		}

		ctx.EditReply(result.Message())
	}()

	return nil
}
