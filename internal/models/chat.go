package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Chat represents one Telegram chat tracking items
type Chat struct {
	ChatID    int64     `json:"chat_id"`
	Data      ChatData  `json:"data"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewChat creates a chat record with an empty wish list
func NewChat(chatID int64) *Chat {
	return &Chat{
		ChatID: chatID,
		Data:   ChatData{WishList: NewWishList()},
	}
}

// ChatData is the per-chat state stored as a JSON document inside the chat
// record. Unknown keys are tolerated on read for forward compatibility.
type ChatData struct {
	WishList *WishList `json:"wishList,omitempty"`
}

// wishListDoc is the wire shape of a serialized wish list
type wishListDoc struct {
	Items []Item `json:"items"`
}

// MarshalJSON serializes the wish list as {"items":[...]}
func (w *WishList) MarshalJSON() ([]byte, error) {
	return json.Marshal(wishListDoc{Items: w.Items()})
}

// UnmarshalJSON restores a wish list from {"items":[...]}, ignoring unknown keys
func (w *WishList) UnmarshalJSON(data []byte) error {
	var doc wishListDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	w.byURL = make(map[string]Item, len(doc.Items))
	for _, item := range doc.Items {
		w.byURL[item.URL] = item
	}
	return nil
}

// DecodeChatData parses a persisted chat data document. Some legacy records
// were written double-encoded (the JSON document stored as a quoted JSON
// string); those are unquoted before parsing.
func DecodeChatData(raw []byte) (ChatData, error) {
	var data ChatData
	if len(raw) == 0 {
		return data, nil
	}
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(string(raw))
		if err != nil {
			return data, fmt.Errorf("unquote chat data: %w", err)
		}
		raw = []byte(unquoted)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode chat data: %w", err)
	}
	return data, nil
}

// EncodeChatData serializes chat data for persistence
func EncodeChatData(data ChatData) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode chat data: %w", err)
	}
	return raw, nil
}
