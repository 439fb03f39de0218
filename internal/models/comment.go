package models

import (
	"time"
)

type Comment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Cid          string     `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	SubmissionID uint       `gorm:"not null;index" json:"submission_id"`
	Submission   Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"submission"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID     *uint      `gorm:"index" json:"parent_id"` // 顶层评论为空
	Content      string     `gorm:"type:text;not null" json:"content"`
	ContentHTML  string     `gorm:"type:text" json:"content_html"`
	NetScore     int        `gorm:"not null;default:0;index" json:"net_score"`
	Visibility   string     `gorm:"size:16;not null;default:'visible';index" json:"visibility"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (c *Comment) VotableID() uint    { return c.ID }
func (c *Comment) VoteColumn() string { return "comment_id" }

func (c *Comment) AcceptsVotes() bool {
	return c.Visibility == VisibilityVisible
}
