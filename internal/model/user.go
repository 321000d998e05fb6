package model

import "time"

// User 本地账号；identity_hash 为外部身份提供方 subject 的单向哈希
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null"`
	UsernameKey  string    `json:"-" gorm:"type:varchar(64);uniqueIndex:ux_users_username_key;not null"`
	IdentityHash string    `json:"-" gorm:"type:varchar(128);uniqueIndex:ux_users_identity_hash;not null"`
	AvatarURL    string    `json:"avatarUrl" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"memberSince"`
}

func (User) TableName() string { return "users" }
