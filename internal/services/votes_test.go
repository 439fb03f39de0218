package services

import (
	"errors"
	"testing"
	"time"

	"senlin/internal/models"
	"senlin/internal/utils"
)

func TestPostSubmissionStartsAtOne(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")

	s, err := PostSubmission(gdb, author, forum.ID, "第一帖", "", "hello **world**")
	if err != nil {
		t.Fatalf("PostSubmission: %v", err)
	}
	if s.NetScore != 1 {
		t.Errorf("net score = %d, want 1 (author self-vote)", s.NetScore)
	}
	if want := utils.CalculateRanking(s.CreatedAt, 1, 0); s.Ranking != want {
		t.Errorf("ranking = %d, want %d", s.Ranking, want)
	}
	if s.ContentHTML == "" {
		t.Error("content was not rendered")
	}
}

func TestCastNetScoreInvariant(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, err := PostSubmission(gdb, author, forum.ID, "t", "", "")
	if err != nil {
		t.Fatalf("PostSubmission: %v", err)
	}

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	carol := createUser(t, gdb, "carol")
	ledger := NewVoteLedger(gdb)

	// 投票、改票、撤票的任意序列之后，净分必须等于票面 up-down
	steps := []struct {
		voter  *models.User
		choice int
	}{
		{alice, models.ChoiceUp},
		{bob, models.ChoiceDown},
		{carol, models.ChoiceUp},
		{bob, models.ChoiceUp},     // 改票
		{alice, models.ChoiceNone}, // 撤票
		{carol, models.ChoiceDown}, // 改票
	}
	for i, step := range steps {
		if err := ledger.Cast(s, step.voter, step.choice, "10.0.0.1"); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		var up, down int64
		gdb.Model(&models.Vote{}).Where("submission_id = ? AND choice = ?", s.ID, models.ChoiceUp).Count(&up)
		gdb.Model(&models.Vote{}).Where("submission_id = ? AND choice = ?", s.ID, models.ChoiceDown).Count(&down)

		var fresh models.Submission
		if err := gdb.First(&fresh, s.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if fresh.NetScore != int(up-down) {
			t.Errorf("step %d: net score %d != %d up - %d down", i, fresh.NetScore, up, down)
		}
		if want := utils.CalculateRanking(fresh.CreatedAt, fresh.NetScore, fresh.CommentCount); fresh.Ranking != want {
			t.Errorf("step %d: ranking %d, want %d", i, fresh.Ranking, want)
		}
	}

	// 终态：author up, bob up, carol down => 1
	var fresh models.Submission
	gdb.First(&fresh, s.ID)
	if fresh.NetScore != 1 {
		t.Errorf("final net score = %d, want 1", fresh.NetScore)
	}
}

func TestSingleVoteRowPerVoter(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")

	voter := createUser(t, gdb, "flipper")
	ledger := NewVoteLedger(gdb)
	for _, choice := range []int{models.ChoiceUp, models.ChoiceDown, models.ChoiceUp, models.ChoiceDown} {
		if err := ledger.Cast(s, voter, choice, ""); err != nil {
			t.Fatalf("cast %d: %v", choice, err)
		}
	}

	var count int64
	gdb.Model(&models.Vote{}).Where("user_id = ? AND submission_id = ?", voter.ID, s.ID).Count(&count)
	if count != 1 {
		t.Errorf("vote rows = %d, want 1", count)
	}

	choice, err := ledger.Choice(s, voter.ID)
	if err != nil {
		t.Fatalf("Choice: %v", err)
	}
	if choice != models.ChoiceDown {
		t.Errorf("choice = %d, want %d", choice, models.ChoiceDown)
	}
}

func TestRetractWithoutExistingVote(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")
	voter := createUser(t, gdb, "ghost")

	if err := NewVoteLedger(gdb).Cast(s, voter, models.ChoiceNone, ""); err != nil {
		t.Fatalf("retract without vote should be a no-op, got %v", err)
	}

	var count int64
	gdb.Model(&models.Vote{}).Where("user_id = ?", voter.ID).Count(&count)
	if count != 0 {
		t.Errorf("vote rows = %d, want 0", count)
	}
}

func TestCastInvalidChoice(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")

	if err := NewVoteLedger(gdb).Cast(s, author, 5, ""); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestBannedVoterRejected(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")

	banned := createUser(t, gdb, "banned")
	gdb.Create(&models.ForumBan{UserID: banned.ID, ForumID: forum.ID, Reason: "spam"})

	err := NewVoteLedger(gdb).Cast(s, banned, models.ChoiceUp, "")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	// 过期的封禁不再拦截
	expired := createUser(t, gdb, "expired")
	past := time.Now().Add(-time.Hour)
	gdb.Create(&models.ForumBan{UserID: expired.ID, ForumID: forum.ID, ExpiresAt: &past})
	if err := NewVoteLedger(gdb).Cast(s, expired, models.ChoiceUp, ""); err != nil {
		t.Errorf("expired ban should not block, got %v", err)
	}
}

func TestLockedAndDeletedRejectNewVotes(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	voter := createUser(t, gdb, "voter")
	ledger := NewVoteLedger(gdb)

	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")
	if err := ledger.Cast(s, voter, models.ChoiceUp, ""); err != nil {
		t.Fatalf("cast before lock: %v", err)
	}
	gdb.Model(&models.Submission{}).Where("id = ?", s.ID).UpdateColumn("locked", true)

	if err := ledger.Cast(s, voter, models.ChoiceDown, ""); !errors.Is(err, ErrLocked) {
		t.Errorf("locked: expected ErrLocked, got %v", err)
	}
	// 撤票不受锁定限制
	if err := ledger.Cast(s, voter, models.ChoiceNone, ""); err != nil {
		t.Errorf("retract on locked submission should pass, got %v", err)
	}

	deleted, _ := PostSubmission(gdb, author, forum.ID, "t2", "", "")
	gdb.Model(&models.Submission{}).Where("id = ?", deleted.ID).UpdateColumn("visibility", models.VisibilityDeleted)
	if err := ledger.Cast(deleted, voter, models.ChoiceUp, ""); !errors.Is(err, ErrLocked) {
		t.Errorf("deleted: expected ErrLocked, got %v", err)
	}
}

func TestTrustedVoterIPOmitted(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")
	ledger := NewVoteLedger(gdb)

	plain := createUser(t, gdb, "plain")
	if err := ledger.Cast(s, plain, models.ChoiceUp, "192.0.2.7"); err != nil {
		t.Fatalf("cast: %v", err)
	}
	trusted := createUser(t, gdb, "trusted")
	gdb.Model(&models.User{}).Where("id = ?", trusted.ID).UpdateColumn("trusted", true)
	trusted.Trusted = true
	if err := ledger.Cast(s, trusted, models.ChoiceUp, "192.0.2.8"); err != nil {
		t.Fatalf("cast: %v", err)
	}

	var votes []models.Vote
	gdb.Where("submission_id = ?", s.ID).Order("id").Find(&votes)
	byUser := map[uint]string{}
	for _, v := range votes {
		byUser[v.UserID] = v.IP
	}
	if byUser[plain.ID] != "192.0.2.7" {
		t.Errorf("plain voter IP = %q, want recorded", byUser[plain.ID])
	}
	if byUser[trusted.ID] != "" {
		t.Errorf("trusted voter IP = %q, want empty", byUser[trusted.ID])
	}
}

func TestCommentVotes(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")

	comment, err := PostComment(gdb, author, s.ID, nil, "楼主说得对")
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	ledger := NewVoteLedger(gdb)
	if err := ledger.Cast(comment, alice, models.ChoiceUp, ""); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if err := ledger.Cast(comment, bob, models.ChoiceDown, ""); err != nil {
		t.Fatalf("cast: %v", err)
	}

	var fresh models.Comment
	gdb.First(&fresh, comment.ID)
	if fresh.NetScore != 0 {
		t.Errorf("comment net score = %d, want 0", fresh.NetScore)
	}

	if choice, _ := ledger.Choice(comment, alice.ID); choice != models.ChoiceUp {
		t.Errorf("alice choice = %d, want up", choice)
	}
	if choice, _ := ledger.Choice(comment, author.ID); choice != models.ChoiceNone {
		t.Errorf("author choice = %d, want none", choice)
	}
}

func TestPostCommentRefreshesActivity(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")

	before := time.Now().Add(-time.Minute)
	gdb.Model(&models.Submission{}).Where("id = ?", s.ID).UpdateColumn("last_active", before)

	if _, err := PostComment(gdb, author, s.ID, nil, "第一条评论"); err != nil {
		t.Fatalf("PostComment: %v", err)
	}

	var fresh models.Submission
	gdb.First(&fresh, s.ID)
	if fresh.CommentCount != 1 {
		t.Errorf("comment count = %d, want 1", fresh.CommentCount)
	}
	if !fresh.LastActive.After(before) {
		t.Errorf("last_active was not bumped")
	}
	if want := utils.CalculateRanking(fresh.CreatedAt, fresh.NetScore, 1); fresh.Ranking != want {
		t.Errorf("ranking = %d, want %d", fresh.Ranking, want)
	}
}

func TestDeleteCommentRecounts(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")

	c1, _ := PostComment(gdb, author, s.ID, nil, "one")
	if _, err := PostComment(gdb, author, s.ID, nil, "two"); err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	if err := DeleteComment(gdb, c1.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	var fresh models.Submission
	gdb.First(&fresh, s.ID)
	if fresh.CommentCount != 1 {
		t.Errorf("comment count = %d, want 1", fresh.CommentCount)
	}
	if want := utils.CalculateRanking(fresh.CreatedAt, fresh.NetScore, 1); fresh.Ranking != want {
		t.Errorf("ranking = %d, want %d", fresh.Ranking, want)
	}
}

func TestCommentOnLockedSubmission(t *testing.T) {
	gdb := newTestDB(t)
	forum := createForum(t, gdb, "tech", false)
	author := createUser(t, gdb, "author")
	s, _ := PostSubmission(gdb, author, forum.ID, "t", "", "")
	gdb.Model(&models.Submission{}).Where("id = ?", s.ID).UpdateColumn("locked", true)

	if _, err := PostComment(gdb, author, s.ID, nil, "too late"); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
}
