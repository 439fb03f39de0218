package utils

import (
	"time"
)

// 热度排序的核心思路：把 Ranking 表达成和 Unix 时间戳同一量纲的"等效发帖时间"。
// 高赞高评论的帖子最多可以"穿越"到 24 小时之后，被踩的帖子最多被压回 12 小时之前。
// 上下限保证单次投票风暴既不能永久置顶也不能永久埋掉一篇帖子。
const (
	NetScoreMultiplier         = 1800  // 每一净赞折算的秒数
	CommentMultiplier          = 5000  // 每条评论折算的秒数
	CommentDownvotedMultiplier = 500   // 净分低于阈值后评论的折算秒数（防止低质高回复帖霸榜）
	DownvotedCutoff            = -5    // 净分阈值
	MaxAdvantage               = 86400 // 最多提前 24h
	MaxPenalty                 = 43200 // 最多滞后 12h
)

// CalculateRanking 由创建时间、净分和评论数计算热度键。
// 纯函数，无任何 IO；净分、评论数或时间戳变化时必须同步重算。
func CalculateRanking(createdAt time.Time, netScore, commentCount int) int64 {
	advantage := int64(netScore) * NetScoreMultiplier
	if netScore > DownvotedCutoff {
		advantage += int64(commentCount) * CommentMultiplier
	} else {
		advantage += int64(commentCount) * CommentDownvotedMultiplier
	}

	if advantage > MaxAdvantage {
		advantage = MaxAdvantage
	}
	if advantage < -MaxPenalty {
		advantage = -MaxPenalty
	}

	return createdAt.Unix() + advantage
}
