// Package filter evaluates chat messages against a guild's content rules:
// banned words and the link policy configured from the panel.
package filter

import (
	"regexp"
	"strings"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// Verdict is the decision for one message.
type Verdict int

const (
	// Allow leaves the message alone
	Allow Verdict = iota
	// Delete removes the message without recording a warning
	Delete
	// DeleteAndWarn removes the message and records an automatic warning
	DeleteAndWarn
)

var linkPattern = regexp.MustCompile(`(?i)\bhttps?://|\bdiscord\.gg/`)

// Result carries the verdict and the reason used for the automatic warning.
type Result struct {
	Verdict Verdict
	Reason  string
}

// Evaluate decides what to do with a message under the guild's settings.
// Banned words always delete and warn; links follow the configured policy.
func Evaluate(settings *models.GuildSettings, content string) Result {
	if settings == nil || content == "" {
		return Result{Verdict: Allow}
	}

	lowered := strings.ToLower(content)
	for _, word := range settings.BannedWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if strings.Contains(lowered, word) {
			return Result{
				Verdict: DeleteAndWarn,
				Reason:  "mensaje con palabra prohibida: " + word,
			}
		}
	}

	if settings.LinkFilter != models.LinkFilterOff && linkPattern.MatchString(content) {
		if settings.LinkFilter == models.LinkFilterWarn {
			return Result{
				Verdict: DeleteAndWarn,
				Reason:  "enlace no permitido en el servidor",
			}
		}
		return Result{Verdict: Delete}
	}

	return Result{Verdict: Allow}
}
