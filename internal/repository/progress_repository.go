package repository

import (
	"academy_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// CompletedWeeks returns the user's completed week numbers in ascending order.
func (r *ProgressRepository) CompletedWeeks(userID uint) ([]int, error) {
	var weeks []int
	err := r.DB.Model(&model.ProgressRecord{}).
		Where("user_id = ?", userID).
		Order("week_number").
		Pluck("week_number", &weeks).Error
	if err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *ProgressRepository) IsComplete(userID uint, weekNumber int) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ProgressRecord{}).
		Where("user_id = ? AND week_number = ?", userID, weekNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *ProgressRepository) MarkComplete(userID uint, weekNumber int) error {
	return r.DB.Create(&model.ProgressRecord{UserID: userID, WeekNumber: weekNumber}).Error
}

func (r *ProgressRepository) UnmarkComplete(userID uint, weekNumber int) error {
	return r.DB.Unscoped().
		Where("user_id = ? AND week_number = ?", userID, weekNumber).
		Delete(&model.ProgressRecord{}).Error
}
