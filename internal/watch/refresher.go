package watch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/foxxcyber/price-watch/internal/models"
)

// ChatStore is the chat persistence the refresher reads and writes
type ChatStore interface {
	FindAllChats(ctx context.Context) ([]*models.Chat, error)
	SaveChat(ctx context.Context, chat *models.Chat) error
}

// Fetcher re-fetches a tracked URL into a fresh item snapshot
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.Item, error)
}

// Notifier delivers a notification message to a chat
type Notifier interface {
	Notify(chatID int64, text string) error
}

// Refresher re-fetches every tracked item across every chat on a fixed
// interval, persists the refreshed state one chat at a time and sends at
// most one notification per changed item.
type Refresher struct {
	chats    ChatStore
	fetcher  Fetcher
	notifier Notifier
	interval time.Duration
	cron     *cron.Cron

	// mu serializes refresh cycles so an overrunning cycle is never overlapped
	mu sync.Mutex
}

// NewRefresher creates a refresher with the given re-fetch interval
func NewRefresher(chats ChatStore, fetcher Fetcher, notifier Notifier, interval time.Duration) *Refresher {
	return &Refresher{
		chats:    chats,
		fetcher:  fetcher,
		notifier: notifier,
		interval: interval,
	}
}

// Start schedules periodic refresh cycles until Stop is called
func (r *Refresher) Start() {
	r.cron = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		if err := r.RunCycle(context.Background()); err != nil {
			log.Printf("Refresh cycle failed: %v", err)
		}
	})
	if err != nil {
		// The schedule string is built from a duration, so this only fires
		// on a zero or negative interval
		log.Fatalf("Failed to schedule refresh: %v", err)
	}
	r.cron.Start()
	log.Printf("Refresh scheduler started, interval %s", r.interval)
}

// Stop halts the schedule; a running cycle finishes first
func (r *Refresher) Stop() {
	if r.cron != nil {
		ctx := r.cron.Stop()
		<-ctx.Done()
	}
}

// RunCycle performs one full refresh pass. A failure loading or saving one
// chat skips that chat only; remaining chats still refresh.
func (r *Refresher) RunCycle(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chats, err := r.chats.FindAllChats(ctx)
	if err != nil {
		return fmt.Errorf("load chats: %w", err)
	}

	for _, chat := range chats {
		if err := r.refreshChat(ctx, chat); err != nil {
			log.Printf("Refresh of chat %d failed: %v", chat.ChatID, err)
		}
	}

	return nil
}

// refreshChat re-fetches all of one chat's items, persists the whole wish
// list in a single write and then notifies per item.
func (r *Refresher) refreshChat(ctx context.Context, chat *models.Chat) error {
	old := chat.Data.WishList
	if old == nil || old.Len() == 0 {
		return nil
	}

	refreshed := models.NewWishList()
	for _, item := range old.Items() {
		fresh, err := r.fetcher.Fetch(ctx, item.URL)
		if err != nil {
			// Keep the previous snapshot; one bad item must not abort the rest
			log.Printf("Re-fetch of %s failed: %v", item.URL, err)
			refreshed.Put(item)
			continue
		}
		refreshed.Put(fresh)
	}

	chat.Data.WishList = refreshed
	if err := r.chats.SaveChat(ctx, chat); err != nil {
		return err
	}

	for _, fresh := range refreshed.Items() {
		prev, _ := old.Get(fresh.URL)
		msg, notify := Decide(prev.Price, fresh.Price, fresh.Name)
		if !notify {
			continue
		}
		if err := r.notifier.Notify(chat.ChatID, msg); err != nil {
			log.Printf("Notification to chat %d failed: %v", chat.ChatID, err)
		}
	}

	return nil
}
