package moderation

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/modlog"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Action is one typed moderation command. Every panel action maps to exactly
// one variant with its own input contract; there is no string-switch over
// action names past the parse step.
type Action interface {
	// Name is the wire name of the action ("warn", "kick", ...)
	Name() string
	// Apply executes the action against a guild and returns the report text
	Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error)
}

// Dispatcher executes actions with the bot session and the escalation engine.
type Dispatcher struct {
	Session *discordgo.Session
	Engine  *Engine
	Hub     *modlog.Hub
}

// NewDispatcher creates a dispatcher for moderation actions
func NewDispatcher(session *discordgo.Session, engine *Engine, hub *modlog.Hub) *Dispatcher {
	return &Dispatcher{
		Session: session,
		Engine:  engine,
		Hub:     hub,
	}
}

// Dispatch applies one action and publishes the outcome to the modlog hub.
func (d *Dispatcher) Dispatch(ctx context.Context, guildID string, action Action) (string, error) {
	report, err := action.Apply(ctx, d, guildID)
	if err != nil {
		return "", err
	}

	if d.Hub != nil {
		event := models.ModLogEvent{
			GuildID: guildID,
			Action:  action.Name(),
			Detail:  report,
		}
		if t, ok := action.(targeted); ok {
			event.UserID = t.targetUser()
		}
		if a, ok := action.(attributed); ok {
			if actor := a.actor(); actor != nil {
				event.ActorID = actor.ID
				event.ActorTag = actor.Tag
			}
		}
		d.Hub.Publish(event)
	}

	logger.Info(fmt.Sprintf("Acción '%s' ejecutada en %s", action.Name(), guildID), "Moderation")
	return report, nil
}

// targeted is implemented by actions aimed at a single member
type targeted interface {
	targetUser() string
}

// attributed is implemented by actions that carry the issuing moderator
type attributed interface {
	actor() *Actor
}

// ParseAction builds the typed action for a moderation form submission.
// Returns a ValidationError when the action name is missing/unknown or a
// required per-variant field is absent.
func ParseAction(form url.Values) (Action, error) {
	name := form.Get("action")
	if name == "" {
		return nil, &ValidationError{Field: "action"}
	}

	userID := form.Get("userId")
	reason := form.Get("reason")

	var actor *Actor
	if id := form.Get("actorId"); id != "" {
		actor = &Actor{ID: id, Tag: form.Get("actorTag")}
	}

	needUser := func() error {
		if userID == "" {
			return &ValidationError{Field: "userId"}
		}
		return nil
	}
	need := func(field string) (string, error) {
		v := form.Get(field)
		if v == "" {
			return "", &ValidationError{Field: field}
		}
		return v, nil
	}

	switch name {
	case "warn":
		if err := needUser(); err != nil {
			return nil, err
		}
		return &WarnAction{UserID: userID, Reason: reason, Issuer: actor}, nil

	case "kick":
		if err := needUser(); err != nil {
			return nil, err
		}
		return &KickAction{UserID: userID, Reason: reason, Issuer: actor}, nil

	case "ban":
		if err := needUser(); err != nil {
			return nil, err
		}
		days, _ := strconv.Atoi(form.Get("deleteDays"))
		return &BanAction{UserID: userID, Reason: reason, DeleteDays: days, Issuer: actor}, nil

	case "unban":
		if err := needUser(); err != nil {
			return nil, err
		}
		return &UnbanAction{UserID: userID, Issuer: actor}, nil

	case "timeout":
		if err := needUser(); err != nil {
			return nil, err
		}
		minutes, err := strconv.Atoi(form.Get("minutes"))
		if err != nil || minutes < 1 {
			return nil, &ValidationError{Field: "minutes"}
		}
		return &TimeoutAction{UserID: userID, Duration: time.Duration(minutes) * time.Minute, Reason: reason, Issuer: actor}, nil

	case "addRole":
		if err := needUser(); err != nil {
			return nil, err
		}
		roleID, err := need("roleId")
		if err != nil {
			return nil, err
		}
		return &AddRoleAction{UserID: userID, RoleID: roleID}, nil

	case "removeRole":
		if err := needUser(); err != nil {
			return nil, err
		}
		roleID, err := need("roleId")
		if err != nil {
			return nil, err
		}
		return &RemoveRoleAction{UserID: userID, RoleID: roleID}, nil

	case "createRole":
		roleName, err := need("name")
		if err != nil {
			return nil, err
		}
		return &CreateRoleAction{RoleName: roleName}, nil

	case "createChannel":
		chName, err := need("name")
		if err != nil {
			return nil, err
		}
		kind := form.Get("kind")
		if kind == "" {
			kind = "text"
		}
		return &CreateChannelAction{ChannelName: chName, Kind: kind}, nil

	case "setChannelPerms":
		channelID, err := need("channelId")
		if err != nil {
			return nil, err
		}
		targetID, err := need("targetId")
		if err != nil {
			return nil, err
		}
		allow, _ := strconv.ParseInt(form.Get("allow"), 10, 64)
		deny, _ := strconv.ParseInt(form.Get("deny"), 10, 64)
		return &SetChannelPermsAction{
			ChannelID:  channelID,
			TargetID:   targetID,
			TargetRole: form.Get("targetType") != "member",
			Allow:      allow,
			Deny:       deny,
		}, nil

	case "renameGuild":
		guildName, err := need("name")
		if err != nil {
			return nil, err
		}
		return &RenameGuildAction{GuildName: guildName}, nil

	case "setIcon":
		icon, err := need("icon")
		if err != nil {
			return nil, err
		}
		return &SetIconAction{Icon: icon}, nil

	case "setNickname":
		if err := needUser(); err != nil {
			return nil, err
		}
		return &SetNicknameAction{UserID: userID, Nickname: form.Get("nickname")}, nil

	case "addEmoji":
		emojiName, err := need("name")
		if err != nil {
			return nil, err
		}
		image, err := need("image")
		if err != nil {
			return nil, err
		}
		return &AddEmojiAction{EmojiName: emojiName, Image: image}, nil

	case "removeEmoji":
		emojiID, err := need("emojiId")
		if err != nil {
			return nil, err
		}
		return &RemoveEmojiAction{EmojiID: emojiID}, nil

	case "addSticker":
		stickerName, err := need("name")
		if err != nil {
			return nil, err
		}
		tags, err := need("tags")
		if err != nil {
			return nil, err
		}
		file, err := need("file")
		if err != nil {
			return nil, err
		}
		return &AddStickerAction{StickerName: stickerName, Tags: tags, FilePNG: []byte(file)}, nil

	case "removeSticker":
		stickerID, err := need("stickerId")
		if err != nil {
			return nil, err
		}
		return &RemoveStickerAction{StickerID: stickerID}, nil
	}

	return nil, &ValidationError{Field: "action"}
}

// WarnAction records a warning through the escalation engine.
type WarnAction struct {
	UserID string
	Reason string
	Issuer *Actor
}

func (a *WarnAction) Name() string       { return "warn" }
func (a *WarnAction) targetUser() string { return a.UserID }
func (a *WarnAction) actor() *Actor      { return a.Issuer }

func (a *WarnAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	result, err := d.Engine.RecordWarning(ctx, guildID, a.UserID, a.Reason, a.Issuer)
	if err != nil {
		return "", err
	}
	return result.Message(), nil
}

// KickAction expels a member from the guild.
type KickAction struct {
	UserID string
	Reason string
	Issuer *Actor
}

func (a *KickAction) Name() string       { return "kick" }
func (a *KickAction) targetUser() string { return a.UserID }
func (a *KickAction) actor() *Actor      { return a.Issuer }

func (a *KickAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildMemberDeleteWithReason(guildID, a.UserID, a.Reason); err != nil {
		return "", err
	}
	return fmt.Sprintf("👢 <@%s> ha sido expulsado.", a.UserID), nil
}

// BanAction bans a member, optionally pruning recent messages.
type BanAction struct {
	UserID     string
	Reason     string
	DeleteDays int
	Issuer     *Actor
}

func (a *BanAction) Name() string       { return "ban" }
func (a *BanAction) targetUser() string { return a.UserID }
func (a *BanAction) actor() *Actor      { return a.Issuer }

func (a *BanAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildBanCreateWithReason(guildID, a.UserID, a.Reason, a.DeleteDays); err != nil {
		return "", err
	}
	return fmt.Sprintf("🔨 <@%s> ha sido baneado.", a.UserID), nil
}

// UnbanAction lifts a ban.
type UnbanAction struct {
	UserID string
	Issuer *Actor
}

func (a *UnbanAction) Name() string       { return "unban" }
func (a *UnbanAction) targetUser() string { return a.UserID }
func (a *UnbanAction) actor() *Actor      { return a.Issuer }

func (a *UnbanAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildBanDelete(guildID, a.UserID); err != nil {
		return "", err
	}
	return fmt.Sprintf("🕊️ El ban de <@%s> ha sido retirado.", a.UserID), nil
}

// TimeoutAction silences a member for a bounded duration.
type TimeoutAction struct {
	UserID   string
	Duration time.Duration
	Reason   string
	Issuer   *Actor
}

func (a *TimeoutAction) Name() string       { return "timeout" }
func (a *TimeoutAction) targetUser() string { return a.UserID }
func (a *TimeoutAction) actor() *Actor      { return a.Issuer }

func (a *TimeoutAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	until := time.Now().Add(a.Duration)
	if err := d.Session.GuildMemberTimeout(guildID, a.UserID, &until, discordgo.WithAuditLogReason(a.Reason)); err != nil {
		return "", err
	}
	return fmt.Sprintf("🔇 <@%s> ha sido silenciado por %s.", a.UserID, a.Duration), nil
}

// AddRoleAction grants a role to a member.
type AddRoleAction struct {
	UserID string
	RoleID string
}

func (a *AddRoleAction) Name() string       { return "addRole" }
func (a *AddRoleAction) targetUser() string { return a.UserID }

func (a *AddRoleAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildMemberRoleAdd(guildID, a.UserID, a.RoleID); err != nil {
		return "", err
	}
	return fmt.Sprintf("🎭 Rol <@&%s> asignado a <@%s>.", a.RoleID, a.UserID), nil
}

// RemoveRoleAction revokes a role from a member.
type RemoveRoleAction struct {
	UserID string
	RoleID string
}

func (a *RemoveRoleAction) Name() string       { return "removeRole" }
func (a *RemoveRoleAction) targetUser() string { return a.UserID }

func (a *RemoveRoleAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildMemberRoleRemove(guildID, a.UserID, a.RoleID); err != nil {
		return "", err
	}
	return fmt.Sprintf("🎭 Rol <@&%s> retirado de <@%s>.", a.RoleID, a.UserID), nil
}

// CreateRoleAction creates a new guild role.
type CreateRoleAction struct {
	RoleName string
}

func (a *CreateRoleAction) Name() string { return "createRole" }

func (a *CreateRoleAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	role, err := d.Session.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: a.RoleName})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✨ Rol '%s' creado (ID %s).", role.Name, role.ID), nil
}

// CreateChannelAction creates a text or voice channel.
type CreateChannelAction struct {
	ChannelName string
	Kind        string // "text" or "voice"
}

func (a *CreateChannelAction) Name() string { return "createChannel" }

func (a *CreateChannelAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	chType := discordgo.ChannelTypeGuildText
	if a.Kind == "voice" {
		chType = discordgo.ChannelTypeGuildVoice
	}
	channel, err := d.Session.GuildChannelCreate(guildID, a.ChannelName, chType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📺 Canal '%s' creado (ID %s).", channel.Name, channel.ID), nil
}

// SetChannelPermsAction sets a permission overwrite on a channel.
type SetChannelPermsAction struct {
	ChannelID  string
	TargetID   string
	TargetRole bool // overwrite for a role instead of a member
	Allow      int64
	Deny       int64
}

func (a *SetChannelPermsAction) Name() string { return "setChannelPerms" }

func (a *SetChannelPermsAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	targetType := discordgo.PermissionOverwriteTypeMember
	if a.TargetRole {
		targetType = discordgo.PermissionOverwriteTypeRole
	}
	if err := d.Session.ChannelPermissionSet(a.ChannelID, a.TargetID, targetType, a.Allow, a.Deny); err != nil {
		return "", err
	}
	return fmt.Sprintf("🔐 Permisos actualizados en el canal %s.", a.ChannelID), nil
}

// RenameGuildAction renames the guild.
type RenameGuildAction struct {
	GuildName string
}

func (a *RenameGuildAction) Name() string { return "renameGuild" }

func (a *RenameGuildAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if _, err := d.Session.GuildEdit(guildID, &discordgo.GuildParams{Name: a.GuildName}); err != nil {
		return "", err
	}
	return fmt.Sprintf("📝 Servidor renombrado a '%s'.", a.GuildName), nil
}

// SetIconAction sets the guild icon from a data URI.
type SetIconAction struct {
	Icon string
}

func (a *SetIconAction) Name() string { return "setIcon" }

func (a *SetIconAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if _, err := d.Session.GuildEdit(guildID, &discordgo.GuildParams{Icon: a.Icon}); err != nil {
		return "", err
	}
	return "🖼️ Icono del servidor actualizado.", nil
}

// SetNicknameAction changes a member's nickname.
type SetNicknameAction struct {
	UserID   string
	Nickname string
}

func (a *SetNicknameAction) Name() string       { return "setNickname" }
func (a *SetNicknameAction) targetUser() string { return a.UserID }

func (a *SetNicknameAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildMemberNickname(guildID, a.UserID, a.Nickname); err != nil {
		return "", err
	}
	return fmt.Sprintf("✏️ Apodo de <@%s> actualizado.", a.UserID), nil
}

// AddEmojiAction uploads a custom emoji (image as data URI).
type AddEmojiAction struct {
	EmojiName string
	Image     string
}

func (a *AddEmojiAction) Name() string { return "addEmoji" }

func (a *AddEmojiAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	emoji, err := d.Session.GuildEmojiCreate(guildID, &discordgo.EmojiParams{
		Name:  a.EmojiName,
		Image: a.Image,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("😀 Emoji :%s: creado.", emoji.Name), nil
}

// RemoveEmojiAction deletes a custom emoji.
type RemoveEmojiAction struct {
	EmojiID string
}

func (a *RemoveEmojiAction) Name() string { return "removeEmoji" }

func (a *RemoveEmojiAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	if err := d.Session.GuildEmojiDelete(guildID, a.EmojiID); err != nil {
		return "", err
	}
	return "🗑️ Emoji eliminado.", nil
}

// AddStickerAction uploads a guild sticker. discordgo has no sticker REST
// helpers, so the multipart request goes through Session.RequestRaw.
type AddStickerAction struct {
	StickerName string
	Tags        string
	FilePNG     []byte
}

func (a *AddStickerAction) Name() string { return "addSticker" }

func (a *AddStickerAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	_ = writer.WriteField("name", a.StickerName)
	_ = writer.WriteField("tags", a.Tags)
	_ = writer.WriteField("description", "")

	part, err := writer.CreateFormFile("file", a.StickerName+".png")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(a.FilePNG); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := discordgo.EndpointGuild(guildID) + "/stickers"
	if _, err := d.Session.RequestRaw("POST", endpoint, writer.FormDataContentType(), body.Bytes(), endpoint, 0); err != nil {
		return "", err
	}
	return fmt.Sprintf("🏷️ Sticker '%s' creado.", a.StickerName), nil
}

// RemoveStickerAction deletes a guild sticker.
type RemoveStickerAction struct {
	StickerID string
}

func (a *RemoveStickerAction) Name() string { return "removeSticker" }

func (a *RemoveStickerAction) Apply(ctx context.Context, d *Dispatcher, guildID string) (string, error) {
	endpoint := discordgo.EndpointGuild(guildID) + "/stickers/" + a.StickerID
	bucket := discordgo.EndpointGuild(guildID) + "/stickers"
	if _, err := d.Session.RequestRaw("DELETE", endpoint, "application/json", nil, bucket, 0); err != nil {
		return "", err
	}
	return "🗑️ Sticker eliminado.", nil
}
