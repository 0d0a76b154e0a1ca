package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Stats summarizes what the bot is currently tracking
type Stats struct {
	Chats        int `json:"chats"`
	TrackedItems int `json:"tracked_items"`
	ScriptRules  int `json:"script_rules"`
}

// GetStats reports chat, item and rule counts
func (h *Handler) GetStats(c *fiber.Ctx) error {
	ctx := c.Context()

	chats, err := h.db.FindAllChats(ctx)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load chats")
	}

	items := 0
	for _, chat := range chats {
		if chat.Data.WishList != nil {
			items += chat.Data.WishList.Len()
		}
	}

	rules, err := h.db.CountScripts(ctx)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to count scripts")
	}

	return Success(c, Stats{
		Chats:        len(chats),
		TrackedItems: items,
		ScriptRules:  rules,
	})
}
