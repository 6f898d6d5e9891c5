package model

// Purchase records a completed payment confirmed by a provider webhook.
// UserID is zero for buyers without an account; their access rides on the
// client-side purchase token instead.
//
// swagger:model
type Purchase struct {
	BaseModel
	Provider string `gorm:"size:30;not null" json:"provider"`
	OrderID  string `gorm:"size:100;uniqueIndex;not null" json:"orderId"`
	Email    string `gorm:"size:100" json:"email"`
	UserID   uint   `gorm:"index" json:"userId,omitempty"`
	Amount   int    `json:"amount"` // cents
	Status   string `gorm:"size:30" json:"status"`
}

func (Purchase) TableName() string {
	return "purchases"
}
