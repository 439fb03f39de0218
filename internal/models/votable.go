package models

// Votable 是可以被投票的实体（帖子或评论）。
// 投票、净分重算的共享逻辑都以这个接口为入口，
// 具体类型只提供身份和 votes 表上的外键列名。
type Votable interface {
	VotableID() uint
	// VoteColumn 返回 votes 表上指向该实体的外键列名
	VoteColumn() string
	// AcceptsVotes 报告实体当前是否还接受新投票
	AcceptsVotes() bool
}
