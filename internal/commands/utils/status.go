package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler,
	)
}

// statusHandler handles the /utils status command
func statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		db := database.Get()
		dbStatus, _ := db.GetStatus()

		ctx.Reply(fmt.Sprintf(
			"📊 **Estado del Bot**\n"+
				"• Bot: 🟢 Online (%s)\n"+
				"• Base de datos: %s\n"+
				"• Servidores: %d",
			ctx.Client.State.Phase(),
			dbStatus,
			ctx.Client.GuildCount(),
		))
	}()
	return nil
}
