package bot

import (
	"context"
	"log"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/foxxcyber/price-watch/internal/models"
)

const (
	pollTimeout    = 10 * time.Second
	requestTimeout = 15 * time.Second
)

// ChatStore is the chat persistence the bot reads and writes
type ChatStore interface {
	FindChatByID(ctx context.Context, chatID int64) (*models.Chat, error)
	SaveChat(ctx context.Context, chat *models.Chat) error
}

// ScriptStore is the extraction rule persistence used by the admin wizard
type ScriptStore interface {
	FindAllScripts(ctx context.Context) ([]*models.Script, error)
	SaveScript(ctx context.Context, script *models.Script) error
}

// Fetcher turns a followed URL into an item snapshot
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.Item, error)
}

// Bot routes inbound Telegram updates to the item management flow and the
// admin script wizard, and delivers refresh notifications.
type Bot struct {
	tb          *tele.Bot
	chats       ChatStore
	scripts     ScriptStore
	fetcher     Fetcher
	adminChatID int64

	// wizard is the single admin dialog session. Only one admin chat is
	// supported; concurrent admin sessions are out of contract.
	wizard *Wizard
}

// New creates the bot and registers its update handlers
func New(token string, chats ChatStore, scripts ScriptStore, fetcher Fetcher, adminChatID int64) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:          tb,
		chats:       chats,
		scripts:     scripts,
		fetcher:     fetcher,
		adminChatID: adminChatID,
		wizard:      NewWizard(),
	}

	tb.Handle(tele.OnText, b.onText)
	tb.Handle(tele.OnCallback, b.onCallback)

	return b, nil
}

// Start begins long-polling for updates; it blocks until Stop
func (b *Bot) Start() {
	log.Println("Bot polling started")
	b.tb.Start()
}

// Stop halts the poller
func (b *Bot) Stop() {
	b.tb.Stop()
}

// Notify sends a plain notification message to a chat. It satisfies the
// refresher's Notifier dependency.
func (b *Bot) Notify(chatID int64, text string) error {
	_, err := b.tb.Send(tele.ChatID(chatID), text)
	return err
}
