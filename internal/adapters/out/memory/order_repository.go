// Package memory is an in-process order store. It backs STORAGE_DRIVER=memory
// for local runs and the acceptance tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/pkg/errs"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository keeps order snapshots in a map guarded by a mutex.
// Callers always receive fresh aggregates, never shared state.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]order.Snapshot
	lastID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[int64]order.Snapshot)}
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.lastID + 1
	if err := aggregate.AssignID(id); err != nil {
		return err
	}
	r.lastID = id
	r.orders[id] = clone(aggregate.Snapshot())
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	r.mu.RLock()
	s, ok := r.orders[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order id", id)
	}
	return order.RestoreOrder(clone(s))
}

// UpdateStatus is a compare-and-swap on status and partner identity.
func (r *OrderRepository) UpdateStatus(_ context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	next := aggregate.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[next.ID]
	if !ok {
		return errs.NewObjectNotFoundError("order id", next.ID)
	}
	if stored.Status != expected {
		return ports.ErrStatusConflict
	}
	if expected.HasPartner() && stored.PartnerID != next.PartnerID {
		return ports.ErrStatusConflict
	}

	stored.Status = next.Status
	stored.PartnerID = next.PartnerID
	stored.PartnerName = next.PartnerName
	stored.PartnerHandle = next.PartnerHandle
	stored.ETAMinutes = next.ETAMinutes
	stored.AcceptedAt = next.AcceptedAt
	stored.PickedUpAt = next.PickedUpAt
	stored.DeliveredAt = next.DeliveredAt
	r.orders[next.ID] = clone(stored)
	return nil
}

func (r *OrderRepository) ListByStatus(
	_ context.Context,
	status order.Status,
	partnerID *int64,
) ([]*order.Order, error) {
	matches := r.filter(func(s order.Snapshot) bool {
		return s.Status == status && (partnerID == nil || s.PartnerID == *partnerID)
	})

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	orders := make([]*order.Order, 0, len(matches))
	for _, s := range matches {
		o, err := order.RestoreOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) ListAddressesForPartner(
	_ context.Context,
	partnerID int64,
	status order.Status,
) ([]string, error) {
	matches := r.filter(func(s order.Snapshot) bool {
		return s.Status == status && s.PartnerID == partnerID
	})

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	addresses := make([]string, 0, len(matches))
	for _, s := range matches {
		addresses = append(addresses, s.Address)
	}
	return addresses, nil
}

func (r *OrderRepository) filter(keep func(order.Snapshot) bool) []order.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []order.Snapshot
	for _, s := range r.orders {
		if keep(s) {
			out = append(out, clone(s))
		}
	}
	return out
}

func clone(s order.Snapshot) order.Snapshot {
	s.AcceptedAt = cloneTime(s.AcceptedAt)
	s.PickedUpAt = cloneTime(s.PickedUpAt)
	s.DeliveredAt = cloneTime(s.DeliveredAt)
	return s
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
