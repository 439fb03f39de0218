package services

import (
	"time"

	"senlin/internal/models"
	"senlin/internal/utils"

	"gorm.io/gorm"
)

// PostSubmission 创建帖子：正文在写入时渲染成净化后的 HTML，
// 然后作者通过 VoteLedger 给自己投第一票，净分从 1 起步，热度键同时初始化。
func PostSubmission(gdb *gorm.DB, author *models.User, forumID uint, title, rawURL, content string) (*models.Submission, error) {
	s := &models.Submission{
		Sid:         utils.NewShortID(),
		UserID:      author.ID,
		ForumID:     forumID,
		Title:       title,
		URL:         rawURL,
		Content:     content,
		ContentHTML: utils.RenderMarkdown(content),
		LastActive:  time.Now(),
		Visibility:  models.VisibilityVisible,
	}
	if err := gdb.Create(s).Error; err != nil {
		return nil, err
	}
	if err := NewVoteLedger(gdb).Cast(s, author, models.ChoiceUp, ""); err != nil {
		return nil, err
	}
	return s, gdb.First(s, s.ID).Error
}

// DeleteSubmission 软删除：翻转可见性并刷新热度键，分数字段原样保留。
// 删除后帖子不再出现在任何排行列表里。
func DeleteSubmission(gdb *gorm.DB, id uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var s models.Submission
		if err := lockForUpdate(tx).First(&s, id).Error; err != nil {
			return err
		}
		return tx.Model(&s).UpdateColumns(map[string]interface{}{
			"visibility": models.VisibilityDeleted,
			"ranking":    utils.CalculateRanking(s.CreatedAt, s.NetScore, s.CommentCount),
		}).Error
	})
}
