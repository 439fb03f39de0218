package models

import (
	"time"
)

// 投票方向。None 表示撤回已有投票。
const (
	ChoiceUp   = 1
	ChoiceDown = -1
	ChoiceNone = 0
)

type Vote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	SubmissionID *uint     `gorm:"index" json:"submission_id"`
	CommentID    *uint     `gorm:"index" json:"comment_id"`
	Choice       int       `gorm:"not null" json:"choice"` // 1 或 -1
	IP           string    `gorm:"size:45" json:"-"`       // 受信任用户留空
	CreatedAt    time.Time `json:"created_at"`
}

// 一人一票由 (user_id, submission_id) / (user_id, comment_id) 的业务逻辑保证：
// 投票入口只有 VoteLedger，更换方向时原地更新而不是新增行。
// PG 上可以额外加 partial unique index 兜底。
