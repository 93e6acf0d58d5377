package commands

import (
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Commands = []discord.ApplicationCommandCreate{
	Register,
	Verify,
	Users,
	Remove,
	Edit,
	AdjustFails,
	Vacation,
	Rank,
	WeeklyStatus,
}

// requireAdmin gates admin-only commands on the member's Discord
// administrator permission. It replies itself when the check fails.
func requireAdmin(e *handler.CommandEvent, action string) bool {
	member := e.Member()
	if member == nil || !member.Permissions.Has(discord.PermissionAdministrator) {
		_ = utils.EH.CreatePermissionError(e, action)
		return false
	}
	return true
}
