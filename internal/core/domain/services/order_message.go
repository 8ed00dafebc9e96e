package services

import (
	"strings"
)

// OrderMessage is what a restaurant posts in its group to request a courier.
type OrderMessage struct {
	Address string
	Phone   string
	Details string
}

var (
	addressKeys = []string{"cím:", "cim:"}
	phoneKeys   = []string{"telefonszám:", "telefonszam:", "telefon:"}
	detailsKeys = []string{"megjegyzés:", "megjegyzes:"}
)

// ParseOrderMessage reads the strict line format restaurants use:
//
//	Cím: 1051 Budapest, Váci utca 1.
//	Telefonszám: +36301234567
//	Megjegyzés: kp
//
// Keys are case-insensitive and accented or unaccented; the value is whatever
// follows the first colon, trimmed. Unknown lines are ignored and a repeated
// key keeps its last value. The second result is false when no address was
// given, i.e. the message is not an order.
func ParseOrderMessage(text string) (OrderMessage, bool) {
	var msg OrderMessage

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case hasAnyPrefix(lower, addressKeys):
			msg.Address = afterColon(line)
		case hasAnyPrefix(lower, phoneKeys):
			msg.Phone = afterColon(line)
		case hasAnyPrefix(lower, detailsKeys):
			msg.Details = afterColon(line)
		}
	}

	if msg.Address == "" {
		return OrderMessage{}, false
	}
	return msg, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func afterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
