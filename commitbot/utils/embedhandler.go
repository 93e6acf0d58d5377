package utils

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	SuccessColor = 0x57F287
	ErrorColor   = 0xED4245
	WarnColor    = 0xFEE75C
	InfoColor    = 0x5865F2
)

// ResponseHandler provides standardized response methods for commands
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// CreateErrorEmbed creates a standard error embed for command events
func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: "❌ " + message,
			Color:       ErrorColor,
		}},
	})
}

// CreateSuccessEmbed creates a standard success embed for command events
func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       SuccessColor,
		}},
	})
}

// CreateInfoEmbed creates a standard info embed for command events
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       InfoColor,
		}},
	})
}

// CreatePermissionError reports an action the member may not perform
func (h *ResponseHandler) CreatePermissionError(event *handler.CommandEvent, action string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: fmt.Sprintf("🚫 You need the administrator permission to %s.", action),
			Color:       ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
