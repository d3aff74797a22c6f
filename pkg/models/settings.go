package models

import "time"

// LinkFilterPolicy controla qué hacer con los enlaces en mensajes.
type LinkFilterPolicy string

const (
	LinkFilterOff    LinkFilterPolicy = "off"    // no tocar enlaces
	LinkFilterDelete LinkFilterPolicy = "delete" // borrar el mensaje
	LinkFilterWarn   LinkFilterPolicy = "warn"   // borrar y registrar advertencia automática
)

// GuildSettings representa el documento de configuración de un servidor
// en la colección "servers". Campos por defecto según el registro inicial
// que hace el bot al unirse a un servidor.
type GuildSettings struct {
	GuildID          string           `bson:"_id" json:"guildId"`
	GuildName        string           `bson:"guildName" json:"guildName"`
	OwnerID          string           `bson:"ownerId" json:"ownerId"`
	AutoRole         string           `bson:"autoRole,omitempty" json:"autoRole,omitempty"`
	WelcomeChannel   string           `bson:"welcomeChannel,omitempty" json:"welcomeChannel,omitempty"`
	WelcomeMessage   string           `bson:"welcomeMessage" json:"welcomeMessage"`
	VerificationRole string           `bson:"verificationRole,omitempty" json:"verificationRole,omitempty"`
	RulesText        string           `bson:"rulesText,omitempty" json:"rulesText,omitempty"`
	BannedWords      []string         `bson:"bannedWords,omitempty" json:"bannedWords,omitempty"`
	LinkFilter       LinkFilterPolicy `bson:"linkFilter" json:"linkFilter"`
	CreatedAt        time.Time        `bson:"createdAt" json:"createdAt"`
}

// DefaultWelcomeMessage es el mensaje de bienvenida inicial de cada servidor.
const DefaultWelcomeMessage = "¡Bienvenido/a al servidor! 🎉"

// NewGuildSettings returns the default settings document for a freshly joined guild.
func NewGuildSettings(guildID, guildName, ownerID string) GuildSettings {
	return GuildSettings{
		GuildID:        guildID,
		GuildName:      guildName,
		OwnerID:        ownerID,
		WelcomeMessage: DefaultWelcomeMessage,
		LinkFilter:     LinkFilterOff,
		CreatedAt:      time.Now(),
	}
}
