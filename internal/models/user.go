package models

import "gorm.io/gorm"

// User represents a registered user in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	ProfilePic   string `gorm:"size:512"`
	Bio          string
}
