package db_models

import "github.com/lib/pq"

const DefaultProfileImage = "/uploads/default-profile.png"

type Account struct {
	BaseModel
	UserID       string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Nickname     string `gorm:"uniqueIndex;not null"`
	Username     string
	PasswordHash string         `gorm:"not null"`
	ProfileImage string         `gorm:"default:/uploads/default-profile.png"`
	Interests    pq.StringArray `gorm:"type:text[]"`
}
