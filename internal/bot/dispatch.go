package bot

import (
	"context"
	"log"
	"regexp"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// urlPattern finds the first tracked-link candidate in a message. The
// scheme match is case sensitive.
var urlPattern = regexp.MustCompile(`(http|https)://[a-zA-Z0-9.\-]+(/\S*)?`)

// Callback data prefixes for the item management flow
const (
	cbList   = "list"
	cbOpen   = "open#"
	cbDelete = "del#"
)

// FindURL returns the first URL in a message text, or "" when there is none
func FindURL(text string) string {
	return urlPattern.FindString(text)
}

// onText routes an inbound text message. Priority order: a contained URL is
// a follow request, then /list, then the admin /db command, then input to
// an in-progress admin wizard. Anything else is ignored.
func (b *Bot) onText(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	chatID := c.Chat().ID
	text := c.Text()
	url := FindURL(text)

	switch {
	case url != "":
		return b.handleFollow(ctx, c, chatID, url)

	case strings.HasPrefix(text, "/list"):
		v, err := b.listView(ctx, chatID)
		if err != nil {
			return b.replyFailure(c, err)
		}
		return send(c, v)

	case b.isAdmin(chatID) && strings.HasPrefix(text, "/db"):
		return b.handleWizardStart(ctx, c)

	case b.isAdmin(chatID) && b.wizard.InProgress():
		return b.handleWizardInput(ctx, c, text)

	default:
		return nil
	}
}

// onCallback routes a button press by its data prefix. Every callback is
// acknowledged regardless of outcome so the transport never redelivers.
func (b *Bot) onCallback(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	chatID := c.Chat().ID
	data := strings.TrimPrefix(c.Callback().Data, "\f")

	var v view
	var err error

	switch {
	case data == cbList:
		v, err = b.listView(ctx, chatID)

	case strings.HasPrefix(data, cbOpen):
		v, err = b.openView(ctx, chatID, strings.TrimPrefix(data, cbOpen))

	case strings.HasPrefix(data, cbDelete):
		v, err = b.deleteItem(ctx, chatID, strings.TrimPrefix(data, cbDelete))

	default:
		// Unrecognized callback data is acknowledged and dropped
		return c.Respond()
	}

	if err != nil {
		log.Printf("Callback %q in chat %d failed: %v", data, chatID, err)
		return c.Respond(&tele.CallbackResponse{Text: msgFailure})
	}

	if err := edit(c, v); err != nil {
		log.Printf("Edit in chat %d failed: %v", chatID, err)
	}
	return c.Respond()
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.adminChatID != 0 && chatID == b.adminChatID
}

// replyFailure logs an internal error and sends the generic failure message
func (b *Bot) replyFailure(c tele.Context, err error) error {
	log.Printf("Request in chat %d failed: %v", c.Chat().ID, err)
	return c.Send(msgFailure)
}
