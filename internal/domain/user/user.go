package user

import (
	"time"
)

// User is keyed by the identity provider's subject claim.
type User struct {
	ID              string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	Email           *string   `gorm:"type:varchar(255);uniqueIndex;column:email" json:"email"`
	FirstName       *string   `gorm:"type:varchar(255);column:first_name" json:"firstName"`
	LastName        *string   `gorm:"type:varchar(255);column:last_name" json:"lastName"`
	ProfileImageURL *string   `gorm:"type:varchar(1024);column:profile_image_url" json:"profileImageUrl"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
