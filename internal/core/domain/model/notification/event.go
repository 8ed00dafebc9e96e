// Package notification describes the outbound messages a restaurant group
// receives when one of its orders makes progress.
package notification

import (
	"fmt"
	"strings"
	"time"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/pkg/errs"

	"github.com/google/uuid"
)

// Event is one message waiting to be delivered to a chat. Events live only in
// process memory; Attempts counts delivery tries made so far.
type Event struct {
	ID         uuid.UUID
	ChatID     int64
	Text       string
	EnqueuedAt time.Time
	Attempts   int
}

// NewEvent validates the target and text of a message. Empty text and a zero
// chat id are rejected.
func NewEvent(chatID int64, text string, now time.Time) (Event, error) {
	if chatID == 0 {
		return Event{}, errs.NewValueIsRequiredError("chat id")
	}
	if strings.TrimSpace(text) == "" {
		return Event{}, errs.NewValueIsRequiredError("text")
	}

	return Event{
		ID:         uuid.New(),
		ChatID:     chatID,
		Text:       text,
		EnqueuedAt: now.UTC(),
	}, nil
}

func (e Event) String() string {
	return fmt.Sprintf("notification %s to chat %d (attempts: %d)", e.ID, e.ChatID, e.Attempts)
}

// ForTransition renders the group message announcing the status the order
// has just reached. The text uses Markdown emphasis.
func ForTransition(o *order.Order) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	partner, ok := o.Partner()
	if !ok {
		return "", errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %d has no delivery partner", o.ID()))
	}

	var b strings.Builder
	switch o.Status() {
	case order.Accepted:
		b.WriteString("🚚 **FUTÁR JELENTKEZETT!**\n\n")
	case order.PickedUp:
		b.WriteString("📦 **RENDELÉS FELVÉVE!**\n\n")
	case order.Delivered:
		b.WriteString("✅ **RENDELÉS KISZÁLLÍTVA!**\n\n")
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("no notification for %s orders", o.Status()))
	}

	fmt.Fprintf(&b, "👤 **Futár:** %s\n", partner.Name())
	fmt.Fprintf(&b, "📱 **Kontakt:** %s\n", partner.Contact())
	if o.Status() == order.Accepted {
		fmt.Fprintf(&b, "⏱️ **Becsült érkezés:** %d perc\n", o.ETAMinutes())
	}
	fmt.Fprintf(&b, "📋 **Rendelés ID:** #%d\n", o.ID())
	return b.String(), nil
}
