package watch

import "fmt"

// Decide is the notification policy: given the price stored before a refresh
// and the freshly fetched one, it returns the message to send and whether to
// send one at all. It is stateless; an item first seen this cycle carries an
// old price of 0 and never notifies.
func Decide(oldPrice, newPrice float64, name string) (string, bool) {
	switch {
	case oldPrice != 0 && newPrice == 0:
		return fmt.Sprintf("%s is no longer available", name), true
	case newPrice < oldPrice:
		return fmt.Sprintf("Price for %s dropped to %.2f", name, newPrice), true
	default:
		return "", false
	}
}
