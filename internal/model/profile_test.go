package model

import (
	"fmt"
	"testing"
	"time"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestProfileApply(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	p := &Profile{XP: 90, Coins: 20, Streak: 3, LastPlayedAt: &yesterday}

	p.Apply(ProfileDelta{Experience: 60, Coins: -10 + 5, CorrectAnswers: 1, Completed: true}, now)

	if p.XP != 150 || p.Level != 2 {
		t.Errorf("xp/level = %d/%d, want 150/2", p.XP, p.Level)
	}
	if p.Coins != 15 {
		t.Errorf("coins = %d, want 15", p.Coins)
	}
	if p.GamesPlayed != 1 || p.TotalCorrect != 1 {
		t.Errorf("gamesPlayed/totalCorrect = %d/%d", p.GamesPlayed, p.TotalCorrect)
	}
	if p.Streak != 4 {
		t.Errorf("streak = %d, want 4", p.Streak)
	}
	if p.LastPlayedAt == nil || !p.LastPlayedAt.Equal(now) {
		t.Errorf("lastPlayedAt = %v", p.LastPlayedAt)
	}
}

func TestProfileApplyEarlyLeave(t *testing.T) {
	now := time.Now()
	p := &Profile{Coins: 5, Streak: 2}

	p.Apply(ProfileDelta{Experience: 10, Coins: -20}, now)

	if p.Coins != 0 {
		t.Errorf("coins = %d, want clamped to 0", p.Coins)
	}
	if p.GamesPlayed != 0 || p.Streak != 2 || p.LastPlayedAt != nil {
		t.Errorf("early leave should not count as a played game: %+v", p)
	}
}

func TestProfileApplySameMatchOnce(t *testing.T) {
	now := time.Now()
	p := &Profile{Coins: 10}
	d := ProfileDelta{MatchID: "m1", Experience: 60, Coins: 5, Completed: true}

	if !p.Apply(d, now) {
		t.Fatal("first settlement should apply")
	}
	if p.Apply(d, now) {
		t.Error("second settlement of m1 should be skipped")
	}
	if p.Coins != 15 || p.XP != 60 || p.GamesPlayed != 1 {
		t.Errorf("coins/xp/games = %d/%d/%d, want 15/60/1", p.Coins, p.XP, p.GamesPlayed)
	}
	if !p.Settled("m1") || p.Settled("m2") {
		t.Errorf("settled = %v", p.SettledMatches)
	}
}

func TestProfileApplyKeepsRecentSettlements(t *testing.T) {
	p := &Profile{}
	for i := 0; i < MaxSettledMatches+5; i++ {
		p.Apply(ProfileDelta{MatchID: fmt.Sprintf("m%d", i), Coins: 1}, time.Now())
	}
	if len(p.SettledMatches) != MaxSettledMatches {
		t.Fatalf("kept %d ids, want %d", len(p.SettledMatches), MaxSettledMatches)
	}
	if p.Settled("m0") || !p.Settled(fmt.Sprintf("m%d", MaxSettledMatches+4)) {
		t.Errorf("oldest ids should be dropped first: %v", p.SettledMatches[:3])
	}
}

func TestNextStreakGap(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	last := now.Add(-72 * time.Hour)
	if got := nextStreak(7, &last, now); got != 1 {
		t.Errorf("nextStreak after gap = %d, want 1", got)
	}
	same := now.Add(-10 * time.Minute)
	if got := nextStreak(7, &same, now); got != 7 {
		t.Errorf("nextStreak same day = %d, want 7", got)
	}
}

func TestModeCapacity(t *testing.T) {
	tests := []struct {
		mode      Mode
		requested int
		want      int
	}{
		{ModeSolo, 0, 1},
		{ModeOneVOne, 0, 2},
		{ModeFour, 0, 4},
		{ModeRandom, 3, 2},
		{ModeFriends, 0, 4},
		{ModeFriends, 1, 2},
		{ModeFriends, 3, 3},
		{ModeFriends, 9, 4},
	}
	for _, tt := range tests {
		if got := tt.mode.Capacity(tt.requested); got != tt.want {
			t.Errorf("%s.Capacity(%d) = %d, want %d", tt.mode, tt.requested, got, tt.want)
		}
	}
}
