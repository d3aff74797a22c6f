// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)
		api.GET("/roles/:guildId", guildRolesHandler)
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	gatewayPhase := "disconnected"
	if client != nil {
		gatewayPhase = client.State.Phase().String()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"gateway":  gatewayPhase,
			"isOnline": gatewayPhase == "ready",
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyGuard Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// guildRolesHandler lists the roles of a guild for the panel's selectors
func guildRolesHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	guildID := c.Param("guildId")
	roles, err := client.Session.GuildRoles(guildID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "No se pudieron obtener los roles del servidor.",
		})
		return
	}

	type roleInfo struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Color    int    `json:"color"`
		Position int    `json:"position"`
		Managed  bool   `json:"managed"`
	}

	out := make([]roleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleInfo{
			ID:       r.ID,
			Name:     r.Name,
			Color:    r.Color,
			Position: r.Position,
			Managed:  r.Managed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId": guildID,
		"roles":   out,
	})
}
