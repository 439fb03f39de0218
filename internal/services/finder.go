package services

import (
	"fmt"
	"time"

	"senlin/internal/models"

	"gorm.io/gorm"
)

// SubmissionFinder 是排行列表的查询引擎：把 Criteria 的过滤、排序
// 和翻页边界组合成一条有界查询，返回一页帖子和下一页的 token。
type SubmissionFinder struct {
	db *gorm.DB
}

func NewSubmissionFinder(gdb *gorm.DB) *SubmissionFinder {
	return &SubmissionFinder{db: gdb}
}

// SubmissionPage 一页查询结果。NextCursor 为空串表示没有下一页。
type SubmissionPage struct {
	Submissions []models.Submission
	NextCursor  string
}

// Find 执行排行查询。cursorToken 是上一页返回的 token，传空串取第一页。
// 带 token 但查不到任何行时返回 ErrNoResults（翻过了末尾）；
// 第一页查到零行是正常的空页，不算错误。
func (f *SubmissionFinder) Find(c *Criteria, cursorToken string) (*SubmissionPage, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}

	tx := f.db.Model(&models.Submission{}).
		Where("submissions.visibility = ?", models.VisibilityVisible)

	since, err := timeWindowStart(c.timeWindow)
	if err != nil {
		return nil, err
	}
	if !since.IsZero() {
		tx = tx.Where("submissions.created_at >= ?", since)
	}

	switch c.view {
	case viewFeatured:
		tx = tx.Where("forum_id IN (?)",
			f.db.Model(&models.Forum{}).Select("id").Where("featured = ?", true))
	case viewSubscribed:
		tx = tx.Where("forum_id IN (?)",
			f.db.Model(&models.Subscription{}).Select("forum_id").Where("user_id = ?", c.user.ID))
	case viewModerated:
		tx = tx.Where("forum_id IN (?)",
			f.db.Model(&models.Moderator{}).Select("forum_id").Where("user_id = ?", c.user.ID))
	case viewForums:
		// 空集合就是零行，不能退化成"无限制"
		if len(c.forumIDs) == 0 {
			tx = tx.Where("1 = 0")
		} else {
			tx = tx.Where("forum_id IN ?", c.forumIDs)
		}
	case viewUsers:
		if len(c.userIDs) == 0 {
			tx = tx.Where("1 = 0")
		} else {
			tx = tx.Where("submissions.user_id IN ?", c.userIDs)
		}
	}

	if c.Exclusions()&ExcludeHiddenForums != 0 {
		tx = tx.Where("forum_id NOT IN (?)",
			f.db.Model(&models.HiddenForum{}).Select("forum_id").Where("user_id = ?", c.user.ID))
	}

	boundary := DecodeCursor(c.sort, cursorToken)

	// 置顶贴只保证完整落在第一页；翻页之后整体排除。
	// 运营约定置顶数量不超过一页，这里不为超额情况做通用化。
	if c.stickiesFirst {
		if boundary == nil {
			tx = tx.Order("sticky DESC")
		} else {
			tx = tx.Where("sticky = ?", false)
		}
	}

	for _, col := range orderColumns(c.sort) {
		tx = tx.Order(col + " DESC")
	}

	if boundary != nil {
		tx = boundary.apply(tx)
	}

	// 多取一行探测下一页，同时给单次请求一个硬上限
	var rows []models.Submission
	if err := tx.Preload("User").Preload("Forum").
		Limit(c.maxPerPage + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	if boundary != nil && len(rows) == 0 {
		return nil, fmt.Errorf("%w: page past the end", ErrNoResults)
	}

	page := &SubmissionPage{}
	if len(rows) > c.maxPerPage {
		rows = rows[:c.maxPerPage]
		page.NextCursor = EncodeCursor(c.sort, &rows[len(rows)-1])
	}
	page.Submissions = rows

	if err := f.fillUserVotes(page.Submissions, c.user); err != nil {
		return nil, err
	}
	return page, nil
}

// orderColumns 各排序模式的列序，全部 DESC，id 恒为最后的平局裁决列
func orderColumns(sort string) []string {
	switch sort {
	case SortHot:
		return []string{"ranking", "id"}
	case SortTop, SortControversial:
		return []string{"net_score", "id"}
	case SortActive:
		return []string{"last_active", "id"}
	case SortMostCommented:
		return []string{"comment_count", "id"}
	default: // new
		return []string{"id"}
	}
}

// timeWindowStart 把时间窗换算成 created_at 下界。
// 未知取值按"查不到东西"处理（ErrNoResults），不是服务器错误。
func timeWindowStart(window string) (time.Time, error) {
	now := time.Now()
	switch window {
	case "", TimeAll:
		return time.Time{}, nil
	case TimeHour:
		return now.Add(-time.Hour), nil
	case TimeDay:
		return now.AddDate(0, 0, -1), nil
	case TimeWeek:
		return now.AddDate(0, 0, -7), nil
	case TimeMonth:
		return now.AddDate(0, -1, 0), nil
	case TimeYear:
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown time window %q", ErrNoResults, window)
	}
}

// fillUserVotes 一次 IN 查询批量填充当前用户在本页帖子上的投票，避免 N+1
func (f *SubmissionFinder) fillUserVotes(subs []models.Submission, user *models.User) error {
	if user == nil || len(subs) == 0 {
		return nil
	}
	ids := make([]uint, len(subs))
	for i := range subs {
		ids[i] = subs[i].ID
	}
	var votes []models.Vote
	if err := f.db.Where("user_id = ? AND submission_id IN ?", user.ID, ids).
		Find(&votes).Error; err != nil {
		return err
	}
	choice := make(map[uint]int, len(votes))
	for _, v := range votes {
		if v.SubmissionID != nil {
			choice[*v.SubmissionID] = v.Choice
		}
	}
	for i := range subs {
		subs[i].UserVote = choice[subs[i].ID]
	}
	return nil
}
