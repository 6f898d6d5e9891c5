package repository

import (
	"academy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriberRepository struct {
	DB *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{DB: db}
}

// Upsert records a captured email. Resubmitting the same address is a no-op
// rather than an error; the gate form can be submitted from several surfaces.
func (r *SubscriberRepository) Upsert(email, source string) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&model.Subscriber{Email: email, Source: source}).Error
}

func (r *SubscriberRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Subscriber{}).Count(&count).Error
	return count, err
}
