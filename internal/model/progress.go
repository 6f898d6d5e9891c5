package model

// ProgressRecord marks one week completed by one user. The pair is unique;
// unmarking a week deletes the row.
//
// swagger:model
type ProgressRecord struct {
	BaseModel
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_week" json:"userId"`
	WeekNumber int  `gorm:"not null;uniqueIndex:idx_user_week" json:"weekNumber"`
}

func (ProgressRecord) TableName() string {
	return "progress"
}
