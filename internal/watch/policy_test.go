package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		oldPrice float64
		newPrice float64
		notify   bool
		contains string
	}{
		{name: "price drop", oldPrice: 100, newPrice: 80, notify: true, contains: "dropped to 80.00"},
		{name: "item vanished", oldPrice: 100, newPrice: 0, notify: true, contains: "no longer available"},
		{name: "price rise", oldPrice: 100, newPrice: 120, notify: false},
		{name: "no prior signal", oldPrice: 0, newPrice: 50, notify: false},
		{name: "unchanged", oldPrice: 100, newPrice: 100, notify: false},
		{name: "never available", oldPrice: 0, newPrice: 0, notify: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, notify := Decide(tt.oldPrice, tt.newPrice, "X")
			assert.Equal(t, tt.notify, notify)
			if tt.notify {
				assert.Contains(t, msg, "X")
				assert.Contains(t, msg, tt.contains)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}
