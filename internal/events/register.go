// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, interaction).
package events

import (
	"github.com/PancyStudios/PancyGuardGo/internal/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/modlog"
)

// shared dependencies of the event handlers, wired at registration
var (
	engine *moderation.Engine
	hub    *modlog.Hub
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, eng *moderation.Engine, logHub *modlog.Hub) {
	engine = eng
	hub = logHub

	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup, settings backfill)
	RegisterReadyEvent(client)

	// Guild events (server join/leave, settings bootstrap)
	RegisterGuildEvents(client)

	// Member events (welcome message, auto role)
	RegisterMemberEvents(client)

	// Message events (content filters)
	RegisterMessageEvents(client)

	// Interaction events (verification button)
	RegisterInteractionEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
