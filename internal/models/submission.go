package models

import (
	"time"
)

// 可见性状态。软删除保留分数字段，但不再出现在排行列表中。
const (
	VisibilityVisible = "visible"
	VisibilityDeleted = "deleted"
)

type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Sid          string    `gorm:"uniqueIndex;size:8;not null" json:"sid"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ForumID      uint      `gorm:"not null;index" json:"forum_id"`
	Forum        Forum     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"forum"`
	Title        string    `gorm:"not null" json:"title"`
	URL          string    `json:"url"` // Optional
	Content      string    `gorm:"type:text" json:"content"`
	ContentHTML  string    `gorm:"type:text" json:"content_html"` // Markdown 渲染后的安全 HTML
	NetScore     int       `gorm:"not null;default:0;index" json:"net_score"`
	Ranking      int64     `gorm:"not null;default:0;index" json:"ranking"`
	CommentCount int       `gorm:"not null;default:0;index" json:"comment_count"`
	LastActive   time.Time `gorm:"index" json:"last_active"`
	Sticky       bool      `gorm:"not null;default:false" json:"sticky"`
	Locked       bool      `gorm:"not null;default:false" json:"locked"`
	Visibility   string    `gorm:"size:16;not null;default:'visible';index" json:"visibility"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 非数据库字段，查询时为当前用户填充
	UserVote int `gorm:"-" json:"user_vote"`
}

func (s *Submission) VotableID() uint    { return s.ID }
func (s *Submission) VoteColumn() string { return "submission_id" }

// AcceptsVotes 软删除或锁定的帖子不再接受新投票
func (s *Submission) AcceptsVotes() bool {
	return s.Visibility == VisibilityVisible && !s.Locked
}
