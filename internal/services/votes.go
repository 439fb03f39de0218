package services

import (
	"errors"
	"fmt"
	"time"

	"senlin/internal/models"
	"senlin/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteLedger 是投票的唯一入口：维护 (用户, 实体) 的单票约束，
// 并保证净分、热度键和投票行在同一个事务里保持一致。
type VoteLedger struct {
	db *gorm.DB
}

func NewVoteLedger(gdb *gorm.DB) *VoteLedger {
	return &VoteLedger{db: gdb}
}

// Cast 投票、改票或撤票（choice 为 ChoiceNone 时撤回）。
// 被投实体先加行锁，同一实体上的并发投票在存储层串行化；
// 然后落投票行，最后用全量重数刷新净分——不用增量，部分失败不会造成漂移。
func (l *VoteLedger) Cast(v models.Votable, voter *models.User, choice int, originIP string) error {
	switch choice {
	case models.ChoiceUp, models.ChoiceDown, models.ChoiceNone:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidChoice, choice)
	}
	if voter.Trusted {
		// 受信任用户不记录来源 IP
		originIP = ""
	}

	return l.db.Transaction(func(tx *gorm.DB) error {
		switch target := v.(type) {
		case *models.Submission:
			return castOnSubmission(tx, target.ID, voter, choice, originIP)
		case *models.Comment:
			return castOnComment(tx, target.ID, voter, choice, originIP)
		default:
			return fmt.Errorf("unsupported votable type %T", v)
		}
	})
}

// Choice 查询用户在实体上的当前投票，没有投过返回 ChoiceNone。纯查询，无副作用。
func (l *VoteLedger) Choice(v models.Votable, voterID uint) (int, error) {
	var vote models.Vote
	err := l.db.Where("user_id = ? AND "+v.VoteColumn()+" = ?", voterID, v.VotableID()).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ChoiceNone, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Choice, nil
}

func castOnSubmission(tx *gorm.DB, id uint, voter *models.User, choice int, ip string) error {
	var s models.Submission
	if err := lockForUpdate(tx).First(&s, id).Error; err != nil {
		return err
	}
	if err := checkBan(tx, voter.ID, s.ForumID); err != nil {
		return err
	}
	if choice != models.ChoiceNone && !s.AcceptsVotes() {
		return ErrLocked
	}
	if err := upsertVote(tx, &s, voter.ID, choice, ip); err != nil {
		return err
	}
	net, err := recount(tx, &s)
	if err != nil {
		return err
	}
	// 净分变化连带热度键，一并在本事务里落库
	return tx.Model(&s).UpdateColumns(map[string]interface{}{
		"net_score": net,
		"ranking":   utils.CalculateRanking(s.CreatedAt, net, s.CommentCount),
	}).Error
}

func castOnComment(tx *gorm.DB, id uint, voter *models.User, choice int, ip string) error {
	var c models.Comment
	if err := lockForUpdate(tx).First(&c, id).Error; err != nil {
		return err
	}
	// 评论的封禁范围取所属帖子的版块
	var s models.Submission
	if err := tx.Select("id", "forum_id").First(&s, c.SubmissionID).Error; err != nil {
		return err
	}
	if err := checkBan(tx, voter.ID, s.ForumID); err != nil {
		return err
	}
	if choice != models.ChoiceNone && !c.AcceptsVotes() {
		return ErrLocked
	}
	if err := upsertVote(tx, &c, voter.ID, choice, ip); err != nil {
		return err
	}
	net, err := recount(tx, &c)
	if err != nil {
		return err
	}
	return tx.Model(&c).UpdateColumn("net_score", net).Error
}

// upsertVote 保证一人一票：已有票改方向时原地更新，撤票删行，绝不产生第二行
func upsertVote(tx *gorm.DB, v models.Votable, voterID uint, choice int, ip string) error {
	var vote models.Vote
	err := tx.Where("user_id = ? AND "+v.VoteColumn()+" = ?", voterID, v.VotableID()).
		First(&vote).Error
	switch {
	case err == nil:
		if choice == models.ChoiceNone {
			return tx.Delete(&vote).Error
		}
		return tx.Model(&vote).UpdateColumns(map[string]interface{}{
			"choice": choice,
			"ip":     ip,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		if choice == models.ChoiceNone {
			// 没有可撤的票
			return nil
		}
		vote = models.Vote{UserID: voterID, Choice: choice, IP: ip}
		vid := v.VotableID()
		if v.VoteColumn() == "comment_id" {
			vote.CommentID = &vid
		} else {
			vote.SubmissionID = &vid
		}
		return tx.Create(&vote).Error
	default:
		return err
	}
}

// recount 从投票表全量重数净分
func recount(tx *gorm.DB, v models.Votable) (int, error) {
	var up, down int64
	col := v.VoteColumn()
	if err := tx.Model(&models.Vote{}).
		Where(col+" = ? AND choice = ?", v.VotableID(), models.ChoiceUp).
		Count(&up).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&models.Vote{}).
		Where(col+" = ? AND choice = ?", v.VotableID(), models.ChoiceDown).
		Count(&down).Error; err != nil {
		return 0, err
	}
	return int(up - down), nil
}

// checkBan 检查用户是否被该版块封禁（ExpiresAt 为空是永久封禁）
func checkBan(tx *gorm.DB, userID, forumID uint) error {
	var count int64
	err := tx.Model(&models.ForumBan{}).
		Where("user_id = ? AND forum_id = ?", userID, forumID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrForbidden
	}
	return nil
}

// lockForUpdate 行级锁。SQLite（测试环境）不支持 FOR UPDATE，
// 它的库级写锁本身就能保证串行，直接跳过。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
