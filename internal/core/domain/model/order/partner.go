package order

import (
	"errors"
	"strconv"
	"strings"

	"foodrelay/internal/pkg/errs"
	"foodrelay/internal/pkg/guard"
)

var ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner constructor")

// Partner is the delivery partner (courier) acting on an order.
// Identity is the numeric chat user id; name and handle are display data.
type Partner struct {
	id     int64
	name   string
	handle string
	guard  guard.ConstructorGuard
}

// NewPartner builds a Partner. The id is mandatory. A blank name falls back to
// the decimal id, and a leading "@" is stripped from the handle.
func NewPartner(id int64, name, handle string) (Partner, error) {
	if id == 0 {
		return Partner{}, errs.NewValueIsRequiredError("partner id")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strconv.FormatInt(id, 10)
	}

	return Partner{
		id:     id,
		name:   name,
		handle: strings.TrimPrefix(strings.TrimSpace(handle), "@"),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (p Partner) Validate() error {
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

func (p Partner) ID() int64 {
	return p.id
}

func (p Partner) Name() string {
	return p.name
}

// Handle returns the chat username without the leading "@", possibly empty.
func (p Partner) Handle() string {
	return p.handle
}

// Contact is how the restaurant can reach the partner: "@handle" when a
// handle is known, the display name otherwise.
func (p Partner) Contact() string {
	if p.handle != "" {
		return "@" + p.handle
	}
	return p.name
}

// SameIdentity reports whether both partners are the same person.
func (p Partner) SameIdentity(other Partner) bool {
	return p.id == other.id
}
