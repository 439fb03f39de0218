package services

import (
	"fmt"

	"senlin/internal/models"
)

// 排序模式
const (
	SortActive        = "active"
	SortHot           = "hot"
	SortNew           = "new"
	SortTop           = "top"
	SortControversial = "controversial"
	SortMostCommented = "most_commented"
)

// 时间窗过滤
const (
	TimeAll   = "all"
	TimeHour  = "hour"
	TimeDay   = "day"
	TimeWeek  = "week"
	TimeMonth = "month"
	TimeYear  = "year"
)

// 排除位
const (
	ExcludeHiddenForums = 1 << iota
)

// DefaultMaxPerPage 单页默认条数
const DefaultMaxPerPage = 25

type view int

const (
	viewAll view = iota // 默认：不加范围限制
	viewFeatured
	viewSubscribed
	viewModerated
	viewForums
	viewUsers
)

// Criteria 描述"列哪些帖子、按什么顺序"。
// 链式构建，视图只允许选择一次。契约被违反时不 panic，
// 而是像 GORM 链式 API 那样锁存第一个错误，由 Find 统一返回。
type Criteria struct {
	sort          string
	user          *models.User
	view          view
	viewSet       bool
	forumIDs      []uint
	userIDs       []uint
	exclusions    int
	stickiesFirst bool
	timeWindow    string
	maxPerPage    int
	err           error
}

// NewCriteria 构造查询条件。user 可以为 nil（匿名访问）。
func NewCriteria(sort string, user *models.User) *Criteria {
	c := &Criteria{
		sort:       sort,
		user:       user,
		maxPerPage: DefaultMaxPerPage,
	}
	switch sort {
	case SortActive, SortHot, SortNew, SortTop, SortControversial, SortMostCommented:
	default:
		c.err = fmt.Errorf("%w: %q", ErrInvalidSortMode, sort)
	}
	return c
}

func (c *Criteria) fail(err error) *Criteria {
	if c.err == nil {
		c.err = err
	}
	return c
}

func (c *Criteria) selectView(v view) *Criteria {
	if c.viewSet {
		return c.fail(ErrViewAlreadySet)
	}
	c.viewSet = true
	c.view = v
	return c
}

// ShowFeatured 只列精选版块的帖子
func (c *Criteria) ShowFeatured() *Criteria {
	return c.selectView(viewFeatured)
}

// ShowSubscribed 只列当前用户订阅版块的帖子，需要登录用户
func (c *Criteria) ShowSubscribed() *Criteria {
	if c.user == nil {
		return c.fail(fmt.Errorf("%w: subscribed", ErrNoActingUser))
	}
	return c.selectView(viewSubscribed)
}

// ShowModerated 只列当前用户管理版块的帖子，需要登录用户
func (c *Criteria) ShowModerated() *Criteria {
	if c.user == nil {
		return c.fail(fmt.Errorf("%w: moderated", ErrNoActingUser))
	}
	return c.selectView(viewModerated)
}

// ShowForums 只列指定版块的帖子。空集合表示"零行"，不是"无限制"。
func (c *Criteria) ShowForums(forumIDs ...uint) *Criteria {
	c.forumIDs = forumIDs
	return c.selectView(viewForums)
}

// ShowUsers 只列指定作者的帖子。空集合同样表示零行。
func (c *Criteria) ShowUsers(userIDs ...uint) *Criteria {
	c.userIDs = userIDs
	return c.selectView(viewUsers)
}

// ExcludeHiddenForums 隐藏当前用户屏蔽的版块，只允许设置一次
func (c *Criteria) ExcludeHiddenForums() *Criteria {
	if c.exclusions&ExcludeHiddenForums != 0 {
		return c.fail(ErrExclusionAlreadySet)
	}
	c.exclusions |= ExcludeHiddenForums
	return c
}

// StickiesFirst 第一页置顶贴排前，幂等
func (c *Criteria) StickiesFirst() *Criteria {
	c.stickiesFirst = true
	return c
}

// WithTime 设置时间窗（all/hour/day/week/month/year）。
// 未知取值到 Find 时按 ErrNoResults 处理，而不是立即报错。
func (c *Criteria) WithTime(window string) *Criteria {
	c.timeWindow = window
	return c
}

// MaxPerPage 设置单页条数，非正数时忽略
func (c *Criteria) MaxPerPage(n int) *Criteria {
	if n > 0 {
		c.maxPerPage = n
	}
	return c
}

// Sort 返回排序模式
func (c *Criteria) Sort() string { return c.sort }

// Err 返回构建过程中锁存的第一个契约错误
func (c *Criteria) Err() error { return c.err }

// Exclusions 返回生效的排除位。匿名访问时排除位一律视为 0。
func (c *Criteria) Exclusions() int {
	if c.user == nil {
		return 0
	}
	return c.exclusions
}
