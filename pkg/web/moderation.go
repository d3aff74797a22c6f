// Moderation endpoints of the panel: executing actions and auditing warnings.
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PancyStudios/PancyGuardGo/internal/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SetupModerationRoutes wires the moderation action endpoint and the warning
// audit view onto the authenticated part of the panel.
func SetupModerationRoutes(s *Server, dispatcher *moderation.Dispatcher, engine *moderation.Engine) {
	authed := s.Group("/", requireLogin())
	{
		authed.POST("/server/:id/moderation/action", moderationActionHandler(dispatcher))
		authed.GET("/server/:id/warnings", warningsHandler(engine))
	}
}

func moderationActionHandler(dispatcher *moderation.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := discord.Get()
		if client == nil || !client.IsReady() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Bot Offline",
				"message": "El bot no está listo; intenta de nuevo en unos segundos.",
			})
			return
		}

		guildID := c.Param("id")

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Formulario inválido.",
			})
			return
		}
		form := c.Request.PostForm

		// attribute the action to the logged-in moderator
		if user := Sessions().UserFor(c); user != nil {
			form.Set("actorId", user.ID)
			form.Set("actorTag", user.Tag())
		}

		action, err := moderation.ParseAction(form)
		if err != nil {
			var verr *moderation.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Validation Error",
					"message": "Falta o es inválido el campo: " + verr.Field,
				})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
			return
		}

		report, err := dispatcher.Dispatch(c.Request.Context(), guildID, action)
		if err != nil {
			var perr *moderation.PersistenceError
			if errors.As(err, &perr) {
				logger.Error("Error de persistencia ejecutando '"+action.Name()+"': "+err.Error(), "Panel")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Persistence Error",
					"message": "No se pudo registrar la acción; no se aplicó ninguna sanción.",
				})
				return
			}
			logger.Error("Error ejecutando '"+action.Name()+"' en "+guildID+": "+err.Error(), "Panel")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Discord Error",
				"message": "Discord rechazó la acción: " + err.Error(),
			})
			return
		}

		c.String(http.StatusOK, report)
	}
}

func warningsHandler(engine *moderation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("id")

		limit := int64(50)
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		records, err := engine.ListRecentWarnings(c.Request.Context(), guildID, limit)
		if err != nil {
			var verr *moderation.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Validation Error",
					"message": "Falta o es inválido el campo: " + verr.Field,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Persistence Error",
				"message": "No se pudieron leer las advertencias.",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guildId":  guildID,
			"count":    len(records),
			"warnings": records,
		})
	}
}
