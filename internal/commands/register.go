package commands

import (
	"github.com/PancyStudios/PancyGuardGo/internal/commands/dev"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/mod"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/utils"
	"github.com/PancyStudios/PancyGuardGo/internal/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/modlog"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, engine *moderation.Engine, store *database.WarnStore, hub *modlog.Hub) {
	// Utility commands (/utils ping, /utils status, /utils help)
	utils.RegisterUtilsCommands(client)

	// Community verification (/verify)
	registerVerifyCommand(client)

	// Moderation commands (/mod ban, /mod kick, /mod warn, /mod mute, ...)
	mod.RegisterModCommands(client, engine, store, hub)

	// Dev-only commands (/dev eval, registered only in the dev guild)
	dev.Register(client)
}
