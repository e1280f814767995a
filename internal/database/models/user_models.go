package models

import "time"

type ProfileType string

const (
	ProfileOperacional ProfileType = "OPERACIONAL"
	ProfileGerencial   ProfileType = "GERENCIAL"
)

type User struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	ProfileType  ProfileType `gorm:"type:varchar(20);default:'OPERACIONAL'" json:"profile_type"`
	CreatedAt    *time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func ValidProfileType(p string) bool {
	switch ProfileType(p) {
	case ProfileOperacional, ProfileGerencial:
		return true
	}
	return false
}
