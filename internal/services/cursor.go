package services

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"time"

	"senlin/internal/models"

	"gorm.io/gorm"
)

// Boundary 是翻页边界：按排序模式持有上一页最后一行的排序列值。
// 每种模式一个变体，字段集合和该模式的排序列一一对应，
// 主键 id 永远是最后的平局裁决列，保证整体是严格全序。
type Boundary interface {
	// apply 追加"严格排在边界之后"的谓词（所有排序列都是 DESC）
	apply(tx *gorm.DB) *gorm.DB
	values() url.Values
}

type hotBoundary struct {
	Ranking int64
	ID      uint
}

func (b hotBoundary) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("(ranking < ? OR (ranking = ? AND id < ?))", b.Ranking, b.Ranking, b.ID)
}

func (b hotBoundary) values() url.Values {
	v := url.Values{}
	v.Set("ranking", strconv.FormatInt(b.Ranking, 10))
	v.Set("id", strconv.FormatUint(uint64(b.ID), 10))
	return v
}

type scoreBoundary struct { // top 和 controversial 共用
	NetScore int
	ID       uint
}

func (b scoreBoundary) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("(net_score < ? OR (net_score = ? AND id < ?))", b.NetScore, b.NetScore, b.ID)
}

func (b scoreBoundary) values() url.Values {
	v := url.Values{}
	v.Set("net_score", strconv.Itoa(b.NetScore))
	v.Set("id", strconv.FormatUint(uint64(b.ID), 10))
	return v
}

type activeBoundary struct {
	LastActive time.Time
	ID         uint
}

func (b activeBoundary) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("(last_active < ? OR (last_active = ? AND id < ?))", b.LastActive, b.LastActive, b.ID)
}

func (b activeBoundary) values() url.Values {
	v := url.Values{}
	v.Set("last_active", b.LastActive.UTC().Format(time.RFC3339Nano))
	v.Set("id", strconv.FormatUint(uint64(b.ID), 10))
	return v
}

type commentedBoundary struct {
	CommentCount int
	ID           uint
}

func (b commentedBoundary) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("(comment_count < ? OR (comment_count = ? AND id < ?))", b.CommentCount, b.CommentCount, b.ID)
}

func (b commentedBoundary) values() url.Values {
	v := url.Values{}
	v.Set("comment_count", strconv.Itoa(b.CommentCount))
	v.Set("id", strconv.FormatUint(uint64(b.ID), 10))
	return v
}

type newBoundary struct {
	ID uint
}

func (b newBoundary) apply(tx *gorm.DB) *gorm.DB {
	return tx.Where("id < ?", b.ID)
}

func (b newBoundary) values() url.Values {
	v := url.Values{}
	v.Set("id", strconv.FormatUint(uint64(b.ID), 10))
	return v
}

// EncodeCursor 从本页最后一行提取当前排序模式的边界值，
// 按列名序列化（整数十进制、时间戳 RFC3339）后 base64url 成不透明 token。
func EncodeCursor(sort string, last *models.Submission) string {
	var b Boundary
	switch sort {
	case SortHot:
		b = hotBoundary{Ranking: last.Ranking, ID: last.ID}
	case SortTop, SortControversial:
		b = scoreBoundary{NetScore: last.NetScore, ID: last.ID}
	case SortActive:
		b = activeBoundary{LastActive: last.LastActive, ID: last.ID}
	case SortMostCommented:
		b = commentedBoundary{CommentCount: last.CommentCount, ID: last.ID}
	default: // new
		b = newBoundary{ID: last.ID}
	}
	return base64.RawURLEncoding.EncodeToString([]byte(b.values().Encode()))
}

// DecodeCursor 解析客户端带回的 token。token 是不可信输入：
// 任何缺字段、类型不对、数值越界的情况都返回 nil（回到第一页），绝不报 500。
func DecodeCursor(sort string, token string) Boundary {
	if token == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}
	vals, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil
	}

	id, ok := cursorUint32(vals, "id")
	if !ok {
		return nil
	}

	switch sort {
	case SortHot:
		ranking, ok := cursorInt64(vals, "ranking")
		if !ok {
			return nil
		}
		return hotBoundary{Ranking: ranking, ID: id}
	case SortTop, SortControversial:
		score, ok := cursorInt32(vals, "net_score")
		if !ok {
			return nil
		}
		return scoreBoundary{NetScore: score, ID: id}
	case SortActive:
		at, ok := cursorTime(vals, "last_active")
		if !ok {
			return nil
		}
		return activeBoundary{LastActive: at, ID: id}
	case SortMostCommented:
		count, ok := cursorInt32(vals, "comment_count")
		if !ok {
			return nil
		}
		return commentedBoundary{CommentCount: count, ID: id}
	case SortNew:
		return newBoundary{ID: id}
	default:
		return nil
	}
}

func cursorUint32(vals url.Values, key string) (uint, bool) {
	if !vals.Has(key) {
		return 0, false
	}
	n, err := strconv.ParseUint(vals.Get(key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func cursorInt32(vals url.Values, key string) (int, bool) {
	if !vals.Has(key) {
		return 0, false
	}
	n, err := strconv.ParseInt(vals.Get(key), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func cursorInt64(vals url.Values, key string) (int64, bool) {
	if !vals.Has(key) {
		return 0, false
	}
	n, err := strconv.ParseInt(vals.Get(key), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func cursorTime(vals url.Values, key string) (time.Time, bool) {
	if !vals.Has(key) {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, vals.Get(key))
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
