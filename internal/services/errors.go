package services

import (
	"errors"
)

// 服务层错误分为三类：
//   - 调用方契约错误（非法排序、Criteria 误用）：handler 映射为 400 并记录日志；
//   - 业务规则拒绝（封禁、锁定）：正常的拒绝响应，不记错误日志；
//   - 查询无法满足（翻页翻过末尾、未知时间窗）：映射为 404。
// 存储层故障不在这里包装，原样向上传递。
var (
	ErrInvalidSortMode     = errors.New("invalid sort mode")
	ErrInvalidChoice       = errors.New("invalid vote choice")
	ErrViewAlreadySet      = errors.New("a view was already selected")
	ErrExclusionAlreadySet = errors.New("exclusion flag was already set")
	ErrNoActingUser        = errors.New("view requires an acting user")

	ErrForbidden = errors.New("user is banned from this forum")
	ErrLocked    = errors.New("item is locked or deleted")

	ErrNoResults = errors.New("no results")
)
