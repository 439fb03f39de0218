package models

import (
	"time"
)

// Subscription 用户订阅的版块
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_sub_user_forum" json:"user_id"`
	ForumID   uint      `gorm:"not null;uniqueIndex:idx_sub_user_forum;index" json:"forum_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Moderator 用户管理的版块
type Moderator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_mod_user_forum" json:"user_id"`
	ForumID   uint      `gorm:"not null;uniqueIndex:idx_mod_user_forum;index" json:"forum_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HiddenForum 用户选择在列表中隐藏的版块
type HiddenForum struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_hidden_user_forum" json:"user_id"`
	ForumID   uint      `gorm:"not null;uniqueIndex:idx_hidden_user_forum;index" json:"forum_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ForumBan 版块封禁记录，ExpiresAt 为空表示永久封禁
type ForumBan struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	ForumID   uint       `gorm:"not null;index" json:"forum_id"`
	Reason    string     `gorm:"size:200" json:"reason"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}
