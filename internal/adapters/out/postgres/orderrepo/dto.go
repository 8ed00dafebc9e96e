// Package orderrepo maps the Order aggregate onto the "orders" table.
package orderrepo

import (
	"time"

	"foodrelay/internal/core/domain/model/order"
)

// OrderDTO is the row layout of an order. Partner columns stay NULL until the
// order is accepted; status is stored by name so the table reads well in psql.
type OrderDTO struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	RestaurantName  string `gorm:"not null;default:''"`
	Address         string `gorm:"not null"`
	Phone           string `gorm:"not null;default:''"`
	Details         string `gorm:"type:text;not null;default:''"`
	GroupID         int64  `gorm:"not null;index"`
	GroupName       string `gorm:"not null;default:''"`
	SourceMessageID int64
	CreatedAt       time.Time `gorm:"not null;index"`
	Status          string    `gorm:"type:varchar(16);not null;index"`
	PartnerID       *int64    `gorm:"index"`
	PartnerName     string
	PartnerHandle   string
	ETAMinutes      *int `gorm:"column:eta_minutes"`
	AcceptedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	dto := OrderDTO{
		ID:              s.ID,
		RestaurantName:  s.RestaurantName,
		Address:         s.Address,
		Phone:           s.Phone,
		Details:         s.Details,
		GroupID:         s.GroupID,
		GroupName:       s.GroupName,
		SourceMessageID: s.SourceMessageID,
		CreatedAt:       s.CreatedAt,
		Status:          s.Status.String(),
		PartnerName:     s.PartnerName,
		PartnerHandle:   s.PartnerHandle,
		AcceptedAt:      s.AcceptedAt,
		PickedUpAt:      s.PickedUpAt,
		DeliveredAt:     s.DeliveredAt,
	}
	if s.PartnerID != 0 {
		partnerID := s.PartnerID
		eta := s.ETAMinutes
		dto.PartnerID = &partnerID
		dto.ETAMinutes = &eta
	}
	return dto
}

// statusColumns are the fields UpdateStatus is allowed to touch. A map is
// used so NULLs are written too; GORM skips zero values in struct updates.
func (dto OrderDTO) statusColumns() map[string]any {
	return map[string]any{
		"status":         dto.Status,
		"partner_id":     dto.PartnerID,
		"partner_name":   dto.PartnerName,
		"partner_handle": dto.PartnerHandle,
		"eta_minutes":    dto.ETAMinutes,
		"accepted_at":    dto.AcceptedAt,
		"picked_up_at":   dto.PickedUpAt,
		"delivered_at":   dto.DeliveredAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:              dto.ID,
		RestaurantName:  dto.RestaurantName,
		Address:         dto.Address,
		Phone:           dto.Phone,
		Details:         dto.Details,
		GroupID:         dto.GroupID,
		GroupName:       dto.GroupName,
		SourceMessageID: dto.SourceMessageID,
		CreatedAt:       dto.CreatedAt.UTC(),
		Status:          status,
		PartnerName:     dto.PartnerName,
		PartnerHandle:   dto.PartnerHandle,
		AcceptedAt:      utc(dto.AcceptedAt),
		PickedUpAt:      utc(dto.PickedUpAt),
		DeliveredAt:     utc(dto.DeliveredAt),
	}
	if dto.PartnerID != nil {
		s.PartnerID = *dto.PartnerID
	}
	if dto.ETAMinutes != nil {
		s.ETAMinutes = *dto.ETAMinutes
	}

	return order.RestoreOrder(s)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
