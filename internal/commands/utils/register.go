package utils

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	// Create individual subcommands (each can be in its own file)
	pingCmd := createPingCommand()
	statusCmd := createStatusCommand()
	helpCmd := createHelpCommand()

	// Build the /utils command group with all subcommands
	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		pingCmd,
		statusCmd,
		helpCmd,
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
