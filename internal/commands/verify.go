// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, dev).
package commands

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// registerVerifyCommand registers the top-level /verify command. It grants
// the guild's configured verification role to the member who runs it.
func registerVerifyCommand(client *discord.ExtendedClient) {
	verifyCmd := discord.NewCommand(
		"verify",
		"Verifícate para acceder al servidor",
		"community",
		verifyHandler,
	).RequiresDatabase()

	client.CommandHandler.RegisterCommand(verifyCmd)
}

func verifyHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		guildID := ctx.Interaction.GuildID
		if guildID == "" {
			ctx.ReplyEphemeral("❌ Este comando solo funciona dentro de un servidor.")
			return
		}

		settings, err := database.GetGuildSettings(guildID)
		if err != nil || settings.VerificationRole == "" {
			ctx.ReplyEphemeral("ℹ️ Este servidor no tiene configurado un rol de verificación.")
			return
		}

		member := ctx.Member()
		if member != nil {
			for _, roleID := range member.Roles {
				if roleID == settings.VerificationRole {
					ctx.ReplyEphemeral("✅ Ya estás verificado/a.")
					return
				}
			}
		}

		if err := ctx.Session.GuildMemberRoleAdd(guildID, ctx.User().ID, settings.VerificationRole); err != nil {
			logger.Error(fmt.Sprintf("Error asignando rol de verificación en %s: %v", guildID, err), "CMD-Verify")
			ctx.ReplyEphemeral("❌ No se pudo asignar el rol de verificación. Avisa a un moderador.")
			return
		}

		ctx.ReplyEphemeral("✅ ¡Verificación completada! Ya tienes acceso al servidor. 🎉")
	}()
	return nil
}
