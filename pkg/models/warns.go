package models

import "time"

// WarnRecord representa una advertencia individual de un usuario en un servidor.
// Los registros son inmutables: nunca se editan, solo se agregan o se consultan.
type WarnRecord struct {
	ID        string    `bson:"_id" json:"id"`
	GuildID   string    `bson:"guildId" json:"guildId"`
	UserID    string    `bson:"userId" json:"userId"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	ActorID   string    `bson:"actorId,omitempty" json:"actorId,omitempty"`
	ActorTag  string    `bson:"actorTag,omitempty" json:"actorTag,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// IsAutomated reports whether the warning was issued by the bot itself
// (filter hits and other automated triggers store no actor).
func (w *WarnRecord) IsAutomated() bool {
	return w.ActorID == ""
}
