package services

import (
	"fmt"
	"testing"

	"senlin/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开内存 SQLite 并迁移全部模型，让投票和查询测试走真实事务
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// 内存库跟着连接走，连接池扩容会拿到一个空库
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Forum{},
		&models.Submission{},
		&models.Comment{},
		&models.Vote{},
		&models.Subscription{},
		&models.Moderator{},
		&models.HiddenForum{},
		&models.ForumBan{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "x"}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func createForum(t *testing.T, gdb *gorm.DB, name string, featured bool) *models.Forum {
	t.Helper()
	f := &models.Forum{Name: name, Featured: featured}
	if err := gdb.Create(f).Error; err != nil {
		t.Fatalf("create forum %s: %v", name, err)
	}
	return f
}

var sidSeq int

// createSubmission 直接按给定的分数字段插入，绕开投票入口，方便构造列表场景
func createSubmission(t *testing.T, gdb *gorm.DB, s *models.Submission) *models.Submission {
	t.Helper()
	sidSeq++
	if s.Sid == "" {
		s.Sid = fmt.Sprintf("s%07d", sidSeq)
	}
	if s.Visibility == "" {
		s.Visibility = models.VisibilityVisible
	}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return s
}

func pageIDs(page *SubmissionPage) []uint {
	ids := make([]uint, len(page.Submissions))
	for i, s := range page.Submissions {
		ids[i] = s.ID
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
