package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/price-watch/internal/models"
)

var (
	ErrChatNotFound = errors.New("chat not found")
)

// FindAllChats returns every chat record
func (db *DB) FindAllChats(ctx context.Context) ([]*models.Chat, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT chat_id, data, created_at, updated_at
		FROM chats
		ORDER BY chat_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		chat := &models.Chat{}
		var raw []byte
		if err := rows.Scan(&chat.ChatID, &raw, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}

		data, err := models.DecodeChatData(raw)
		if err != nil {
			// A corrupt document fails that record only, not the whole listing
			log.Printf("Skipping chat %d: %v", chat.ChatID, err)
			continue
		}
		chat.Data = data
		chats = append(chats, chat)
	}

	return chats, rows.Err()
}

// FindChatByID retrieves a chat by its Telegram chat ID
func (db *DB) FindChatByID(ctx context.Context, chatID int64) (*models.Chat, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT chat_id, data, created_at, updated_at
		FROM chats
		WHERE chat_id = $1
	`, chatID)

	chat, err := scanChat(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	return chat, nil
}

// SaveChat upserts a chat record, replacing the whole stored document.
// The write is atomic per chat.
func (db *DB) SaveChat(ctx context.Context, chat *models.Chat) error {
	raw, err := models.EncodeChatData(chat.Data)
	if err != nil {
		return fmt.Errorf("save chat %d: %w", chat.ChatID, err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO chats (chat_id, data, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (chat_id) DO UPDATE SET data = $2, updated_at = NOW()
	`, chat.ChatID, raw)
	if err != nil {
		return fmt.Errorf("save chat %d: %w", chat.ChatID, err)
	}

	return nil
}

// CountChats returns the number of chat records
func (db *DB) CountChats(ctx context.Context) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM chats`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}
	return count, nil
}

// scanChat reads one chat row, decoding the stored JSON document. A record
// whose document cannot be decoded fails that record's access only.
func scanChat(row pgx.Row) (*models.Chat, error) {
	chat := &models.Chat{}
	var raw []byte

	if err := row.Scan(&chat.ChatID, &raw, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return nil, err
	}

	data, err := models.DecodeChatData(raw)
	if err != nil {
		return nil, fmt.Errorf("chat %d: %w", chat.ChatID, err)
	}
	chat.Data = data

	return chat, nil
}
