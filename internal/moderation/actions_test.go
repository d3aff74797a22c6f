package moderation

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestParseActionVariants(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string // expected Action.Name()
	}{
		{"warn", url.Values{"action": {"warn"}, "userId": {"u1"}, "reason": {"spam"}}, "warn"},
		{"kick", url.Values{"action": {"kick"}, "userId": {"u1"}}, "kick"},
		{"ban", url.Values{"action": {"ban"}, "userId": {"u1"}, "deleteDays": {"1"}}, "ban"},
		{"unban", url.Values{"action": {"unban"}, "userId": {"u1"}}, "unban"},
		{"timeout", url.Values{"action": {"timeout"}, "userId": {"u1"}, "minutes": {"30"}}, "timeout"},
		{"addRole", url.Values{"action": {"addRole"}, "userId": {"u1"}, "roleId": {"r1"}}, "addRole"},
		{"removeRole", url.Values{"action": {"removeRole"}, "userId": {"u1"}, "roleId": {"r1"}}, "removeRole"},
		{"createRole", url.Values{"action": {"createRole"}, "name": {"Staff"}}, "createRole"},
		{"createChannel", url.Values{"action": {"createChannel"}, "name": {"general"}}, "createChannel"},
		{"setChannelPerms", url.Values{"action": {"setChannelPerms"}, "channelId": {"c1"}, "targetId": {"r1"}, "allow": {"1024"}}, "setChannelPerms"},
		{"renameGuild", url.Values{"action": {"renameGuild"}, "name": {"Nuevo Nombre"}}, "renameGuild"},
		{"setIcon", url.Values{"action": {"setIcon"}, "icon": {"data:image/png;base64,AAAA"}}, "setIcon"},
		{"setNickname", url.Values{"action": {"setNickname"}, "userId": {"u1"}, "nickname": {"apodo"}}, "setNickname"},
		{"addEmoji", url.Values{"action": {"addEmoji"}, "name": {"pancy"}, "image": {"data:image/png;base64,AAAA"}}, "addEmoji"},
		{"removeEmoji", url.Values{"action": {"removeEmoji"}, "emojiId": {"e1"}}, "removeEmoji"},
		{"addSticker", url.Values{"action": {"addSticker"}, "name": {"pancy"}, "tags": {"fiesta"}, "file": {"png-bytes"}}, "addSticker"},
		{"removeSticker", url.Values{"action": {"removeSticker"}, "stickerId": {"s1"}}, "removeSticker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := ParseAction(tt.form)
			if err != nil {
				t.Fatalf("ParseAction: %v", err)
			}
			if action.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", action.Name(), tt.want)
			}
		})
	}
}

func TestParseActionValidation(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantField string
	}{
		{"no action", url.Values{}, "action"},
		{"unknown action", url.Values{"action": {"explode"}}, "action"},
		{"warn without user", url.Values{"action": {"warn"}, "reason": {"x"}}, "userId"},
		{"kick without user", url.Values{"action": {"kick"}}, "userId"},
		{"ban without user", url.Values{"action": {"ban"}}, "userId"},
		{"unban without user", url.Values{"action": {"unban"}}, "userId"},
		{"timeout without minutes", url.Values{"action": {"timeout"}, "userId": {"u1"}}, "minutes"},
		{"timeout with zero minutes", url.Values{"action": {"timeout"}, "userId": {"u1"}, "minutes": {"0"}}, "minutes"},
		{"timeout with garbage minutes", url.Values{"action": {"timeout"}, "userId": {"u1"}, "minutes": {"pronto"}}, "minutes"},
		{"addRole without role", url.Values{"action": {"addRole"}, "userId": {"u1"}}, "roleId"},
		{"removeRole without user", url.Values{"action": {"removeRole"}, "roleId": {"r1"}}, "userId"},
		{"createRole without name", url.Values{"action": {"createRole"}}, "name"},
		{"createChannel without name", url.Values{"action": {"createChannel"}}, "name"},
		{"setChannelPerms without channel", url.Values{"action": {"setChannelPerms"}, "targetId": {"r1"}}, "channelId"},
		{"setChannelPerms without target", url.Values{"action": {"setChannelPerms"}, "channelId": {"c1"}}, "targetId"},
		{"renameGuild without name", url.Values{"action": {"renameGuild"}}, "name"},
		{"setIcon without icon", url.Values{"action": {"setIcon"}}, "icon"},
		{"setNickname without user", url.Values{"action": {"setNickname"}}, "userId"},
		{"addEmoji without image", url.Values{"action": {"addEmoji"}, "name": {"pancy"}}, "image"},
		{"removeEmoji without id", url.Values{"action": {"removeEmoji"}}, "emojiId"},
		{"addSticker without tags", url.Values{"action": {"addSticker"}, "name": {"pancy"}, "file": {"x"}}, "tags"},
		{"removeSticker without id", url.Values{"action": {"removeSticker"}}, "stickerId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAction(tt.form)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestParseActionFieldMapping(t *testing.T) {
	t.Run("timeout duration in minutes", func(t *testing.T) {
		action, err := ParseAction(url.Values{
			"action": {"timeout"}, "userId": {"u1"}, "minutes": {"90"}, "reason": {"flood"},
		})
		if err != nil {
			t.Fatalf("ParseAction: %v", err)
		}
		to, ok := action.(*TimeoutAction)
		if !ok {
			t.Fatalf("action is %T, want *TimeoutAction", action)
		}
		if to.Duration != 90*time.Minute {
			t.Errorf("duration = %s, want 90m", to.Duration)
		}
		if to.Reason != "flood" {
			t.Errorf("reason = %q", to.Reason)
		}
	})

	t.Run("actor is attached when present", func(t *testing.T) {
		action, err := ParseAction(url.Values{
			"action": {"warn"}, "userId": {"u1"},
			"actorId": {"mod-1"}, "actorTag": {"Mod#0001"},
		})
		if err != nil {
			t.Fatalf("ParseAction: %v", err)
		}
		warn := action.(*WarnAction)
		if warn.Issuer == nil || warn.Issuer.ID != "mod-1" || warn.Issuer.Tag != "Mod#0001" {
			t.Errorf("issuer = %+v, want mod-1/Mod#0001", warn.Issuer)
		}
	})

	t.Run("actor defaults to nil", func(t *testing.T) {
		action, err := ParseAction(url.Values{"action": {"warn"}, "userId": {"u1"}})
		if err != nil {
			t.Fatalf("ParseAction: %v", err)
		}
		if action.(*WarnAction).Issuer != nil {
			t.Error("issuer should be nil when no actorId is sent")
		}
	})

	t.Run("channel perms target type", func(t *testing.T) {
		action, err := ParseAction(url.Values{
			"action": {"setChannelPerms"}, "channelId": {"c1"}, "targetId": {"u1"},
			"targetType": {"member"}, "allow": {"3072"}, "deny": {"2048"},
		})
		if err != nil {
			t.Fatalf("ParseAction: %v", err)
		}
		perms := action.(*SetChannelPermsAction)
		if perms.TargetRole {
			t.Error("targetType=member should not map to a role overwrite")
		}
		if perms.Allow != 3072 || perms.Deny != 2048 {
			t.Errorf("allow/deny = %d/%d, want 3072/2048", perms.Allow, perms.Deny)
		}
	})
}
