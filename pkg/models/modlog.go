package models

import "time"

// ModLogEvent es el evento que se difunde por el hub de moderación
// (websocket del panel y broker MQTT) cada vez que se ejecuta una acción.
type ModLogEvent struct {
	GuildID   string    `json:"guildId"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId,omitempty"`
	ActorID   string    `json:"actorId,omitempty"`
	ActorTag  string    `json:"actorTag,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
