package utils

import (
	"testing"
	"time"
)

func TestCalculateRankingScenario(t *testing.T) {
	ts := time.Unix(1700000000, 0)

	// 10 净赞 + 3 评论 = 18000 + 15000 = 33000 秒的提前量
	if got, want := CalculateRanking(ts, 10, 3), ts.Unix()+33000; got != want {
		t.Errorf("CalculateRanking = %d, want %d", got, want)
	}

	// 零互动的帖子就按发帖时间排
	if got, want := CalculateRanking(ts, 0, 0), ts.Unix(); got != want {
		t.Errorf("CalculateRanking = %d, want %d", got, want)
	}
}

func TestCalculateRankingDownvotedCutoff(t *testing.T) {
	ts := time.Unix(1700000000, 0)

	// 净分跌破阈值后评论权重从 5000 降到 500，高回复的低质帖压不住榜
	if got, want := CalculateRanking(ts, -6, 10), ts.Unix()-6*1800+10*500; got != want {
		t.Errorf("below cutoff: got %d, want %d", got, want)
	}
	// 阈值本身（-5）也按降权算
	if got, want := CalculateRanking(ts, -5, 10), ts.Unix()-5*1800+10*500; got != want {
		t.Errorf("at cutoff: got %d, want %d", got, want)
	}
	// 阈值之上一格还是全权重
	if got, want := CalculateRanking(ts, -4, 10), ts.Unix()-4*1800+10*5000; got != want {
		t.Errorf("above cutoff: got %d, want %d", got, want)
	}
}

func TestCalculateRankingClamps(t *testing.T) {
	ts := time.Unix(1700000000, 0)

	// 再热的帖子最多提前 24 小时
	if got, want := CalculateRanking(ts, 1000, 1000), ts.Unix()+MaxAdvantage; got != want {
		t.Errorf("advantage clamp: got %d, want %d", got, want)
	}
	// 再被踩也最多滞后 12 小时
	if got, want := CalculateRanking(ts, -1000, 0), ts.Unix()-MaxPenalty; got != want {
		t.Errorf("penalty clamp: got %d, want %d", got, want)
	}
}

func TestCalculateRankingBounds(t *testing.T) {
	ts := time.Unix(1700000000, 0)

	// 任意输入下 ranking 和时间戳的偏差都必须落在 [-MaxPenalty, MaxAdvantage]
	for netScore := -1000; netScore <= 1000; netScore += 37 {
		for comments := 0; comments <= 520; comments += 13 {
			diff := CalculateRanking(ts, netScore, comments) - ts.Unix()
			if diff > MaxAdvantage || diff < -MaxPenalty {
				t.Fatalf("netScore=%d comments=%d: diff %d out of bounds", netScore, comments, diff)
			}
		}
	}
}
