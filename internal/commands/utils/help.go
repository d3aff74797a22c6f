package utils

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.Reply(
			"📖 **Ayuda de PancyGuard Go**\n\n" +
				"**Comandos disponibles:**\n" +
				"• `/utils ping` - Comprueba la latencia\n" +
				"• `/utils status` - Estado del bot\n" +
				"• `/verify` - Verifícate para acceder al servidor\n" +
				"• `/mod ban <usuario> <razón>` - Banea a un usuario\n" +
				"• `/mod kick <usuario> <razón>` - Expulsa a un usuario\n" +
				"• `/mod warn <usuario> <razón>` - Advierte a un usuario\n" +
				"• `/mod mute <usuario> <duración> <razón>` - Mutea a un usuario\n" +
				"• `/mod warns <usuario>` - Lista las advertencias\n" +
				"• `/mod removewarn <usuario> <id>` - Elimina una advertencia\n\n" +
				"Con 3 advertencias se aplica un timeout automático de 1 hora y con 5 un ban permanente.",
		)
	}()
	return nil
}
