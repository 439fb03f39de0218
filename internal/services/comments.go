package services

import (
	"time"

	"senlin/internal/models"
	"senlin/internal/utils"

	"gorm.io/gorm"
)

// PostComment 发表评论。评论行、帖子的评论数/活跃时间/热度键
// 在同一个事务里落库，帖子行先加锁，和投票走同一套串行化约定。
func PostComment(gdb *gorm.DB, author *models.User, submissionID uint, parentID *uint, content string) (*models.Comment, error) {
	var c *models.Comment
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var s models.Submission
		if err := lockForUpdate(tx).First(&s, submissionID).Error; err != nil {
			return err
		}
		if err := checkBan(tx, author.ID, s.ForumID); err != nil {
			return err
		}
		if !s.AcceptsVotes() {
			// 锁定或已删除的帖子不再接受评论
			return ErrLocked
		}
		c = &models.Comment{
			Cid:          utils.NewShortID(),
			SubmissionID: s.ID,
			UserID:       author.ID,
			ParentID:     parentID,
			Content:      content,
			ContentHTML:  utils.RenderMarkdown(content),
			Visibility:   models.VisibilityVisible,
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return refreshSubmissionActivity(tx, &s, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment 软删除评论并回刷帖子的评论数和热度键（活跃时间不回拨）
func DeleteComment(gdb *gorm.DB, id uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&c).UpdateColumn("visibility", models.VisibilityDeleted).Error; err != nil {
			return err
		}
		var s models.Submission
		if err := lockForUpdate(tx).First(&s, c.SubmissionID).Error; err != nil {
			return err
		}
		return refreshSubmissionActivity(tx, &s, s.LastActive)
	})
}

// refreshSubmissionActivity 全量重数可见评论，连同活跃时间和热度键一起落库
func refreshSubmissionActivity(tx *gorm.DB, s *models.Submission, lastActive time.Time) error {
	var count int64
	if err := tx.Model(&models.Comment{}).
		Where("submission_id = ? AND visibility = ?", s.ID, models.VisibilityVisible).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(s).UpdateColumns(map[string]interface{}{
		"comment_count": count,
		"last_active":   lastActive,
		"ranking":       utils.CalculateRanking(s.CreatedAt, s.NetScore, int(count)),
	}).Error
}
