package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	DisplayName string    `gorm:"size:100;not null" json:"displayName"`
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	AvatarURL   string    `gorm:"size:255" json:"avatarUrl"`
	IsPremium   bool      `gorm:"default:false" json:"isPremium"`
	OrderID     string    `gorm:"size:100" json:"orderId,omitempty"`
	LastLogin   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the public shape returned to clients.
type Profile struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsPremium   bool   `json:"is_premium"`
}

func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsPremium:   u.IsPremium,
	}
}
