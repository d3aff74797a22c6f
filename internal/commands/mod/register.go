// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/PancyStudios/PancyGuardGo/internal/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/modlog"
)

// shared dependencies of the moderation commands, wired at registration
var (
	engine *moderation.Engine
	store  *database.WarnStore
	hub    *modlog.Hub
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, eng *moderation.Engine, warnStore *database.WarnStore, logHub *modlog.Hub) {
	engine = eng
	store = warnStore
	hub = logHub

	// Create individual subcommands (each can be in its own file)
	banCmd := createBanCommand()
	kickCmd := createKickCommand()
	warnCmd := createWarnCommand()
	muteCmd := createMuteCommand()
	warningsCmd := createWarningsCommand()
	removeWarnCmd := createRemoveWarnCommand()

	// Build the /mod command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		banCmd,
		kickCmd,
		warnCmd,
		muteCmd,
		warningsCmd,
		removeWarnCmd,
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(modGroup)
}
