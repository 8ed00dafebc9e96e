package memory

import (
	"context"

	"foodrelay/internal/core/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork hands out the shared repository. Writes take effect
// immediately; Commit and Rollback only close the unit. Per-order atomicity
// comes from UpdateStatus.
type UnitOfWork struct {
	repo *OrderRepository
}

func (u *UnitOfWork) Begin(_ context.Context) error    { return nil }
func (u *UnitOfWork) Commit(_ context.Context) error   { return nil }
func (u *UnitOfWork) Rollback(_ context.Context) error { return nil }

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return u.repo
}

// UnitOfWorkFactory creates units bound to one OrderRepository.
type UnitOfWorkFactory struct {
	repo *OrderRepository
}

func NewUnitOfWorkFactory(repo *OrderRepository) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{repo: repo}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{repo: f.repo}
}
