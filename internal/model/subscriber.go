package model

// Subscriber is a captured email address from the gate, banner, or exit
// intent popup. Source records which surface captured it.
//
// swagger:model
type Subscriber struct {
	BaseModel
	Email  string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Source string `gorm:"size:50" json:"source"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}
