// Panel pages: Discord OAuth login and per-guild settings management.
package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/gin-gonic/gin"
)

var panelTemplates = template.Must(template.New("panel").Parse(`
{{define "home"}}<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>PancyGuard Go</title></head>
<body>
<h1>🛡️ PancyGuard Go</h1>
<p>Panel de administración de la comunidad.</p>
{{if .User}}<p>Conectado como <b>{{.User.Username}}</b> — <a href="/panel">Ir al panel</a> | <a href="/logout">Salir</a></p>
{{else}}<p><a href="/login">Iniciar sesión con Discord</a></p>{{end}}
</body></html>{{end}}

{{define "panel"}}<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Panel | PancyGuard Go</title></head>
<body>
<h1>Panel de servidores</h1>
<p>Conectado como <b>{{.User.Username}}</b> — <a href="/logout">Salir</a></p>
<ul>
{{range .Guilds}}<li><a href="/server/{{.ID}}">{{.Name}}</a> ({{.MemberCount}} miembros)</li>
{{else}}<li>El bot no está en ningún servidor todavía. <a href="/invite/0">Invítalo</a>.</li>{{end}}
</ul>
</body></html>{{end}}

{{define "server"}}<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>{{.Settings.GuildName}} | PancyGuard Go</title></head>
<body>
<h1>⚙️ {{.Settings.GuildName}}</h1>
<p><a href="/panel">← Volver al panel</a></p>
{{if .Saved}}<p><b>✅ Configuración guardada.</b></p>{{end}}
<form method="post" action="/server/{{.Settings.GuildID}}">
  <p><label>Rol automático (ID): <input name="autoRole" value="{{.Settings.AutoRole}}"></label></p>
  <p><label>Canal de bienvenida (ID): <input name="welcomeChannel" value="{{.Settings.WelcomeChannel}}"></label></p>
  <p><label>Mensaje de bienvenida: <input name="welcomeMessage" value="{{.Settings.WelcomeMessage}}" size="60"></label></p>
  <p><label>Rol de verificación (ID): <input name="verificationRole" value="{{.Settings.VerificationRole}}"></label></p>
  <p><label>Palabras prohibidas (separadas por coma): <input name="bannedWords" value="{{.BannedWords}}" size="60"></label></p>
  <p><label>Filtro de enlaces:
    <select name="linkFilter">
      <option value="off" {{if eq .Settings.LinkFilter "off"}}selected{{end}}>Desactivado</option>
      <option value="delete" {{if eq .Settings.LinkFilter "delete"}}selected{{end}}>Borrar mensaje</option>
      <option value="warn" {{if eq .Settings.LinkFilter "warn"}}selected{{end}}>Borrar y advertir</option>
    </select></label></p>
  <p><label>Reglas:<br><textarea name="rulesText" rows="6" cols="70">{{.Settings.RulesText}}</textarea></label></p>
  <p><button type="submit">Guardar</button></p>
</form>
<h2>🔧 Moderación</h2>
<form method="post" action="/server/{{.Settings.GuildID}}/moderation/action">
  <p><label>Acción: <input name="action" placeholder="warn"></label>
     <label>Usuario (ID): <input name="userId"></label>
     <label>Razón: <input name="reason"></label>
     <button type="submit">Ejecutar</button></p>
</form>
<p><a href="/server/{{.Settings.GuildID}}/warnings">Ver advertencias recientes</a></p>
</body></html>{{end}}
`))

// SetupPanelRoutes registers the HTML panel and the OAuth login flow
func SetupPanelRoutes(s *Server) {
	s.GET("/", homeHandler)
	s.GET("/login", loginHandler)
	s.GET("/callback", callbackHandler)
	s.GET("/logout", logoutHandler)
	s.GET("/invite/:guildId", inviteHandler)

	authed := s.Group("/", requireLogin())
	{
		authed.GET("/panel", panelHandler)
		authed.GET("/server/:id", serverSettingsHandler)
		authed.POST("/server/:id", serverSettingsSaveHandler)
	}
}

func homeHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "home", gin.H{
		"User": Sessions().UserFor(c),
	})
}

func loginHandler(c *gin.Context) {
	c.Redirect(http.StatusFound, Sessions().AuthURL())
}

func callbackHandler(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	if code == "" || !Sessions().consumeState(state) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "El estado de OAuth es inválido o ha expirado.",
		})
		return
	}

	id, user, err := Sessions().Login(c.Request.Context(), code)
	if err != nil {
		logger.Error("Error en el login OAuth: "+err.Error(), "Panel")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "OAuth Error",
			"message": "No se pudo completar el inicio de sesión con Discord.",
		})
		return
	}

	logger.Info(fmt.Sprintf("Usuario %s inició sesión en el panel", user.Tag()), "Panel")
	c.SetCookie(sessionCookie, id, 86400, "/", "", false, true)
	c.Redirect(http.StatusFound, "/panel")
}

func logoutHandler(c *gin.Context) {
	Sessions().Logout(c)
	c.Redirect(http.StatusFound, "/")
}

// inviteHandler redirects to the Discord bot invite with the right permissions
func inviteHandler(c *gin.Context) {
	cfg := config.Get()
	guildID := c.Param("guildId")

	inviteURL := fmt.Sprintf(
		"https://discord.com/oauth2/authorize?client_id=%s&scope=bot%%20applications.commands&permissions=%d",
		cfg.ClientID,
		discordgoModeratorPermissions,
	)
	if guildID != "" && guildID != "0" {
		inviteURL += "&guild_id=" + guildID
	}
	c.Redirect(http.StatusFound, inviteURL)
}

// Moderate Members, Ban, Kick, Manage Roles/Channels/Guild/Nicknames/Emojis, Send Messages
const discordgoModeratorPermissions = 1099780063302

type guildSummary struct {
	ID          string
	Name        string
	MemberCount int
}

func panelHandler(c *gin.Context) {
	client := discord.Get()

	var guilds []guildSummary
	if client != nil && client.Session != nil && client.Session.State != nil {
		client.Session.State.RLock()
		for _, g := range client.Session.State.Guilds {
			guilds = append(guilds, guildSummary{ID: g.ID, Name: g.Name, MemberCount: g.MemberCount})
		}
		client.Session.State.RUnlock()
	}

	c.HTML(http.StatusOK, "panel", gin.H{
		"User":   Sessions().UserFor(c),
		"Guilds": guilds,
	})
}

func serverSettingsHandler(c *gin.Context) {
	renderServerPage(c, c.Query("saved") == "1")
}

func renderServerPage(c *gin.Context, saved bool) {
	guildID := c.Param("id")

	settings, err := database.GetGuildSettings(guildID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "El servidor no está registrado en PancyGuard.",
		})
		return
	}

	c.HTML(http.StatusOK, "server", gin.H{
		"Settings":    settings,
		"BannedWords": strings.Join(settings.BannedWords, ", "),
		"Saved":       saved,
	})
}

func serverSettingsSaveHandler(c *gin.Context) {
	guildID := c.Param("id")

	settings, err := database.GetGuildSettings(guildID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "El servidor no está registrado en PancyGuard.",
		})
		return
	}

	updated := *settings
	updated.AutoRole = c.PostForm("autoRole")
	updated.WelcomeChannel = c.PostForm("welcomeChannel")
	updated.WelcomeMessage = c.PostForm("welcomeMessage")
	if updated.WelcomeMessage == "" {
		updated.WelcomeMessage = models.DefaultWelcomeMessage
	}
	updated.VerificationRole = c.PostForm("verificationRole")
	updated.RulesText = c.PostForm("rulesText")

	updated.BannedWords = nil
	for _, word := range strings.Split(c.PostForm("bannedWords"), ",") {
		if word = strings.TrimSpace(word); word != "" {
			updated.BannedWords = append(updated.BannedWords, word)
		}
	}

	switch policy := models.LinkFilterPolicy(c.PostForm("linkFilter")); policy {
	case models.LinkFilterOff, models.LinkFilterDelete, models.LinkFilterWarn:
		updated.LinkFilter = policy
	default:
		updated.LinkFilter = models.LinkFilterOff
	}

	if _, err := database.UpdateGuildSettings(&updated); err != nil {
		logger.Error("Error guardando configuración de "+guildID+": "+err.Error(), "Panel")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "No se pudo guardar la configuración.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/server/"+guildID+"?saved=1")
}
