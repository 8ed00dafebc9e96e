package orderrepo

import (
	"context"
	"errors"

	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository. db may be a
// transaction handle.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order and assigns the generated id to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return aggregate.AssignID(dto.ID)
}

// Get retrieves an order by id.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order id", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus writes the lifecycle columns with a conditional UPDATE. The
// WHERE clause is re-checked by Postgres after it locks the row, so of two
// racing writers only one sees RowsAffected == 1.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	aggregate *order.Order,
	expected order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String())
	if expected.HasPartner() {
		query = query.Where("partner_id = ?", dto.PartnerID)
	}

	result := query.Updates(dto.statusColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order id", dto.ID)
	}
	return ports.ErrStatusConflict
}

// ListByStatus returns orders in the given status, newest first.
func (r *GormOrderRepository) ListByStatus(
	ctx context.Context,
	status order.Status,
	partnerID *int64,
) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Where("status = ?", status.String())
	if partnerID != nil {
		query = query.Where("partner_id = ?", *partnerID)
	}

	var dtos []OrderDTO
	if err := query.Order("created_at DESC, id DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// ListAddressesForPartner returns the partner's addresses in the given
// status, oldest first.
func (r *GormOrderRepository) ListAddressesForPartner(
	ctx context.Context,
	partnerID int64,
	status order.Status,
) ([]string, error) {
	addresses := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("partner_id = ? AND status = ?", partnerID, status.String()).
		Order("created_at ASC, id ASC").
		Pluck("address", &addresses).Error
	if err != nil {
		return nil, err
	}

	return addresses, nil
}
