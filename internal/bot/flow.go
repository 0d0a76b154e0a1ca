package bot

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/foxxcyber/price-watch/internal/database"
	"github.com/foxxcyber/price-watch/internal/models"
	"github.com/foxxcyber/price-watch/internal/scraper"
)

// User-facing replies
const (
	msgFailure    = "Something went wrong, please try again later"
	msgCantTrack  = "I can't track this kind of link: %v"
	msgFollowed   = "Now tracking %s\nCurrent price: %.2f"
	msgEmptyList  = "You are not tracking anything yet. Send me a product link to start."
	msgListHeader = "Your tracked items:"
	msgDetail     = "%s\nPrice: %.2f\nQuantity: %d\n%s"
)

// view is a rendered outbound message: text plus optional inline keyboard
type view struct {
	Text   string
	Markup *tele.ReplyMarkup
}

// send delivers a view as a new message
func send(c tele.Context, v view) error {
	if v.Markup != nil {
		return c.Send(v.Text, v.Markup)
	}
	return c.Send(v.Text)
}

// edit rewrites the originating message in place with a view
func edit(c tele.Context, v view) error {
	if v.Markup != nil {
		return c.Edit(v.Text, v.Markup)
	}
	return c.Edit(v.Text)
}

// handleFollow starts tracking a URL for a chat
func (b *Bot) handleFollow(ctx context.Context, c tele.Context, chatID int64, url string) error {
	v, err := b.follow(ctx, chatID, url)
	if err != nil {
		return b.replyFailure(c, err)
	}
	return send(c, v)
}

// follow fetches the item behind url and inserts it into the chat's wish
// list, creating the chat record on first use. A missing extraction rule is
// a user-facing soft failure; any other fetch error leaves chat state
// unchanged and surfaces as an internal error.
func (b *Bot) follow(ctx context.Context, chatID int64, url string) (view, error) {
	item, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, scraper.ErrNoScript) {
			return view{Text: fmt.Sprintf(msgCantTrack, err)}, nil
		}
		return view{}, err
	}

	chat, err := b.chats.FindChatByID(ctx, chatID)
	if err != nil {
		if !errors.Is(err, database.ErrChatNotFound) {
			return view{}, err
		}
		chat = models.NewChat(chatID)
	}
	if chat.Data.WishList == nil {
		chat.Data.WishList = models.NewWishList()
	}

	chat.Data.WishList.Put(item)
	if err := b.chats.SaveChat(ctx, chat); err != nil {
		return view{}, err
	}

	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "List", Data: cbList}},
	}}
	return view{
		Text:   fmt.Sprintf(msgFollowed, item.Name, item.Price),
		Markup: markup,
	}, nil
}

// listView renders the chat's wish list, one button per item
func (b *Bot) listView(ctx context.Context, chatID int64) (view, error) {
	chat, err := b.chats.FindChatByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, database.ErrChatNotFound) {
			return view{Text: msgEmptyList}, nil
		}
		return view{}, err
	}

	list := chat.Data.WishList
	if list == nil || list.Len() == 0 {
		return view{Text: msgEmptyList}, nil
	}

	var rows [][]tele.InlineButton
	for _, item := range list.Items() {
		rows = append(rows, []tele.InlineButton{{
			Text: item.ButtonLabel(),
			Data: cbOpen + item.URL,
		}})
	}

	return view{
		Text:   msgListHeader,
		Markup: &tele.ReplyMarkup{InlineKeyboard: rows},
	}, nil
}

// openView renders the full detail of one tracked item. A callback naming a
// URL that is no longer tracked is an internal error, not a soft reply: the
// button referenced an item that has since disappeared.
func (b *Bot) openView(ctx context.Context, chatID int64, url string) (view, error) {
	chat, err := b.chats.FindChatByID(ctx, chatID)
	if err != nil {
		return view{}, err
	}

	list := chat.Data.WishList
	if list == nil {
		return view{}, fmt.Errorf("chat %d has no wish list", chatID)
	}
	item, ok := list.Get(url)
	if !ok {
		return view{}, fmt.Errorf("item %q not tracked by chat %d", url, chatID)
	}

	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "Open", URL: item.URL}, {Text: "Delete", Data: cbDelete + item.URL}},
		{{Text: "Back", Data: cbList}},
	}}

	return view{
		Text:   fmt.Sprintf(msgDetail, item.Name, item.Price, item.Quantity, item.URL),
		Markup: markup,
	}, nil
}

// deleteItem removes a tracked URL (a no-op when absent), persists and
// re-renders the list view in place.
func (b *Bot) deleteItem(ctx context.Context, chatID int64, url string) (view, error) {
	chat, err := b.chats.FindChatByID(ctx, chatID)
	if err != nil {
		return view{}, err
	}

	if chat.Data.WishList != nil {
		chat.Data.WishList.Remove(url)
	}
	if err := b.chats.SaveChat(ctx, chat); err != nil {
		return view{}, err
	}

	return b.listView(ctx, chatID)
}
