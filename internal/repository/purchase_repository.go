package repository

import (
	"academy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

// Record stores a webhook-confirmed purchase. Providers redeliver webhooks,
// so a repeated order ID is ignored.
func (r *PurchaseRepository) Record(p *model.Purchase) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoNothing: true,
	}).Create(p).Error
}

func (r *PurchaseRepository) FindByOrderID(orderID string) (*model.Purchase, error) {
	var p model.Purchase
	if err := r.DB.Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
