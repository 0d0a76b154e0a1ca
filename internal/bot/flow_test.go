package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/price-watch/internal/database"
	"github.com/foxxcyber/price-watch/internal/models"
	"github.com/foxxcyber/price-watch/internal/scraper"
)

type fakeChatStore struct {
	chats map[int64]*models.Chat
	saved int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{chats: make(map[int64]*models.Chat)}
}

func (f *fakeChatStore) FindChatByID(ctx context.Context, chatID int64) (*models.Chat, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, database.ErrChatNotFound
	}
	return chat, nil
}

func (f *fakeChatStore) SaveChat(ctx context.Context, chat *models.Chat) error {
	f.chats[chat.ChatID] = chat
	f.saved++
	return nil
}

type fakeFetcher struct {
	item models.Item
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (models.Item, error) {
	if f.err != nil {
		return models.NewItem(url), f.err
	}
	item := f.item
	item.URL = url
	return item, nil
}

func newTestBot(chats *fakeChatStore, fetcher Fetcher) *Bot {
	return &Bot{
		chats:       chats,
		fetcher:     fetcher,
		adminChatID: 42,
		wizard:      NewWizard(),
	}
}

func TestFollow_CreatesChatAndTracksItem(t *testing.T) {
	store := newFakeChatStore()
	b := newTestBot(store, &fakeFetcher{item: models.Item{Name: "Lamp", Price: 25.5}})

	v, err := b.follow(context.Background(), 7, "https://shop.example/x")
	require.NoError(t, err)

	assert.Contains(t, v.Text, "Lamp")
	assert.Contains(t, v.Text, "25.50")
	require.NotNil(t, v.Markup)
	require.Len(t, v.Markup.InlineKeyboard, 1)
	assert.Equal(t, cbList, v.Markup.InlineKeyboard[0][0].Data)

	chat := store.chats[7]
	require.NotNil(t, chat)
	item, ok := chat.Data.WishList.Get("https://shop.example/x")
	require.True(t, ok)
	assert.Equal(t, "Lamp", item.Name)
}

func TestFollow_SameURLTwiceNeverDuplicates(t *testing.T) {
	store := newFakeChatStore()
	fetcher := &fakeFetcher{item: models.Item{Name: "Lamp", Price: 25.5}}
	b := newTestBot(store, fetcher)

	_, err := b.follow(context.Background(), 7, "https://shop.example/x")
	require.NoError(t, err)

	// Second follow supersedes the first entry
	fetcher.item = models.Item{Name: "Lamp v2", Price: 19.99}
	_, err = b.follow(context.Background(), 7, "https://shop.example/x")
	require.NoError(t, err)

	list := store.chats[7].Data.WishList
	require.Equal(t, 1, list.Len())
	item, _ := list.Get("https://shop.example/x")
	assert.Equal(t, "Lamp v2", item.Name)
}

func TestFollow_NoScriptRepliesSoftly(t *testing.T) {
	store := newFakeChatStore()
	b := newTestBot(store, &fakeFetcher{err: fmt.Errorf("%w", scraper.ErrNoScript)})

	v, err := b.follow(context.Background(), 7, "https://unknown.example/x")
	require.NoError(t, err)
	assert.Contains(t, v.Text, "can't track this kind of link")
	assert.Empty(t, store.chats)
}

func TestFollow_GenericFetchErrorLeavesStateUnchanged(t *testing.T) {
	store := newFakeChatStore()
	b := newTestBot(store, &fakeFetcher{err: errors.New("timeout")})

	_, err := b.follow(context.Background(), 7, "https://shop.example/x")
	require.Error(t, err)
	assert.Empty(t, store.chats)
	assert.Zero(t, store.saved)
}

func TestListView_EmptyAndUnknownChat(t *testing.T) {
	store := newFakeChatStore()
	b := newTestBot(store, &fakeFetcher{})

	// Unknown chat
	v, err := b.listView(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, msgEmptyList, v.Text)
	assert.Nil(t, v.Markup)

	// Known chat with empty list
	store.chats[7] = models.NewChat(7)
	v, err = b.listView(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, msgEmptyList, v.Text)
}

func TestListView_OneButtonPerItem(t *testing.T) {
	store := newFakeChatStore()
	chat := models.NewChat(7)
	chat.Data.WishList.Put(models.Item{URL: "https://shop.example/a", Name: "Chair", Price: 120})
	chat.Data.WishList.Put(models.Item{URL: "https://shop.example/b", Name: "Lamp", Price: 25.5})
	store.chats[7] = chat

	b := newTestBot(store, &fakeFetcher{})
	v, err := b.listView(context.Background(), 7)
	require.NoError(t, err)

	require.NotNil(t, v.Markup)
	require.Len(t, v.Markup.InlineKeyboard, 2)
	assert.Equal(t, cbOpen+"https://shop.example/a", v.Markup.InlineKeyboard[0][0].Data)
	assert.Contains(t, v.Markup.InlineKeyboard[0][0].Text, "Chair")
	assert.Equal(t, cbOpen+"https://shop.example/b", v.Markup.InlineKeyboard[1][0].Data)
}

func TestOpenView_ShowsDetailWithButtons(t *testing.T) {
	store := newFakeChatStore()
	chat := models.NewChat(7)
	chat.Data.WishList.Put(models.Item{URL: "https://shop.example/a", Name: "Chair", Price: 120, Quantity: 4})
	store.chats[7] = chat

	b := newTestBot(store, &fakeFetcher{})
	v, err := b.openView(context.Background(), 7, "https://shop.example/a")
	require.NoError(t, err)

	assert.Contains(t, v.Text, "Chair")
	assert.Contains(t, v.Text, "120.00")
	assert.Contains(t, v.Text, "Quantity: 4")
	assert.Contains(t, v.Text, "https://shop.example/a")

	require.NotNil(t, v.Markup)
	require.Len(t, v.Markup.InlineKeyboard, 2)
	assert.Equal(t, "https://shop.example/a", v.Markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, cbDelete+"https://shop.example/a", v.Markup.InlineKeyboard[0][1].Data)
	assert.Equal(t, cbList, v.Markup.InlineKeyboard[1][0].Data)
}

func TestOpenView_StaleReferenceIsInternalError(t *testing.T) {
	store := newFakeChatStore()
	store.chats[7] = models.NewChat(7)

	b := newTestBot(store, &fakeFetcher{})
	_, err := b.openView(context.Background(), 7, "https://shop.example/gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not tracked")
}

func TestDeleteItem_RemovesAndRerendersList(t *testing.T) {
	store := newFakeChatStore()
	chat := models.NewChat(7)
	chat.Data.WishList.Put(models.Item{URL: "https://shop.example/a", Name: "Chair", Price: 120})
	chat.Data.WishList.Put(models.Item{URL: "https://shop.example/b", Name: "Lamp", Price: 25})
	store.chats[7] = chat

	b := newTestBot(store, &fakeFetcher{})
	v, err := b.deleteItem(context.Background(), 7, "https://shop.example/a")
	require.NoError(t, err)

	assert.Equal(t, 1, store.chats[7].Data.WishList.Len())
	require.NotNil(t, v.Markup)
	require.Len(t, v.Markup.InlineKeyboard, 1)
	assert.Equal(t, cbOpen+"https://shop.example/b", v.Markup.InlineKeyboard[0][0].Data)
}

func TestDeleteItem_AbsentURLIsNoopButStillRenders(t *testing.T) {
	store := newFakeChatStore()
	chat := models.NewChat(7)
	chat.Data.WishList.Put(models.Item{URL: "https://shop.example/a", Name: "Chair", Price: 120})
	store.chats[7] = chat

	b := newTestBot(store, &fakeFetcher{})
	v, err := b.deleteItem(context.Background(), 7, "https://shop.example/missing")
	require.NoError(t, err)

	assert.Equal(t, 1, store.chats[7].Data.WishList.Len())
	require.NotNil(t, v.Markup)
	require.Len(t, v.Markup.InlineKeyboard, 1)
}
