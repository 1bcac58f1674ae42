package game

import (
	"errors"
	"testing"
	"time"

	"triviabattle/internal/model"
)

func TestResolveDebitsAndCools(t *testing.T) {
	now := time.Unix(1000, 0)
	attacker := &model.MatchPlayer{ID: "a", Coins: 50}
	target := &model.MatchPlayer{ID: "b"}
	cooldowns := make(Cooldowns)

	effect, err := AttackResolver{}.Resolve(attacker, target, model.AttackBlur, cooldowns, now)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if effect.Kind != model.AttackBlur || effect.Duration != 4*time.Second {
		t.Errorf("effect = %+v", effect)
	}
	if attacker.Coins != 40 || attacker.AttacksUsed != 1 || target.AttacksReceived != 1 {
		t.Errorf("counters: coins=%d used=%d received=%d", attacker.Coins, attacker.AttacksUsed, target.AttacksReceived)
	}

	_, err = AttackResolver{}.Resolve(attacker, target, model.AttackBlur, cooldowns, now.Add(time.Second))
	if !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("second blur err = %v, want ErrOnCooldown", err)
	}
	if attacker.Coins != 40 {
		t.Errorf("rejected attack charged coins: %d", attacker.Coins)
	}

	// a different kind is not on cooldown
	if _, err := (AttackResolver{}).Resolve(attacker, target, model.AttackShake, cooldowns, now); err != nil {
		t.Errorf("shake: %v", err)
	}

	if _, err := (AttackResolver{}).Resolve(attacker, target, model.AttackBlur, cooldowns, now.Add(AttackCooldown)); err != nil {
		t.Errorf("blur after cooldown: %v", err)
	}
}

func TestResolveCheckOrder(t *testing.T) {
	now := time.Unix(1000, 0)
	target := &model.MatchPlayer{ID: "b"}

	poor := &model.MatchPlayer{ID: "a", Coins: 5}
	if _, err := (AttackResolver{}).Resolve(poor, target, "nuke", make(Cooldowns), now); !errors.Is(err, ErrUnknownAttackKind) {
		t.Errorf("unknown kind err = %v", err)
	}
	if _, err := (AttackResolver{}).Resolve(poor, target, model.AttackFreeze, make(Cooldowns), now); !errors.Is(err, ErrInsufficientCurrency) {
		t.Errorf("poor attacker err = %v", err)
	}

	// a live cooldown is reported even when the attacker is also broke
	cooldowns := Cooldowns{{Kind: model.AttackFreeze, AttackerID: "a", TargetID: "b"}: now.Add(time.Minute)}
	if _, err := (AttackResolver{}).Resolve(poor, target, model.AttackFreeze, cooldowns, now); !errors.Is(err, ErrOnCooldown) {
		t.Errorf("poor attacker on cooldown err = %v", err)
	}
}

func TestExactFundsThenCooldown(t *testing.T) {
	now := time.Unix(1000, 0)
	attacker := &model.MatchPlayer{ID: "a", Coins: 10}
	target := &model.MatchPlayer{ID: "b"}
	other := &model.MatchPlayer{ID: "c"}
	cooldowns := make(Cooldowns)

	if _, err := (AttackResolver{}).Resolve(attacker, target, model.AttackBlur, cooldowns, now); err != nil {
		t.Fatalf("blur with exact funds: %v", err)
	}
	if attacker.Coins != 0 {
		t.Fatalf("coins = %d, want 0", attacker.Coins)
	}
	if _, err := (AttackResolver{}).Resolve(attacker, target, model.AttackBlur, cooldowns, now); !errors.Is(err, ErrOnCooldown) {
		t.Errorf("repeat err = %v, want ErrOnCooldown", err)
	}
	// another target is not on cooldown, so the empty purse decides
	if _, err := (AttackResolver{}).Resolve(attacker, other, model.AttackBlur, cooldowns, now); !errors.Is(err, ErrInsufficientCurrency) {
		t.Errorf("other target err = %v, want ErrInsufficientCurrency", err)
	}
	if attacker.Coins < 0 {
		t.Errorf("coins went negative: %d", attacker.Coins)
	}
}

func TestAttackCosts(t *testing.T) {
	want := map[model.AttackKind]int{
		model.AttackBlur:    10,
		model.AttackReverse: 15,
		model.AttackShake:   12,
		model.AttackFreeze:  20,
		model.AttackFake:    18,
	}
	for kind, cost := range want {
		got, ok := AttackCost(kind)
		if !ok || got != cost {
			t.Errorf("AttackCost(%s) = %d, %t", kind, got, ok)
		}
	}
	if _, ok := AttackCost("nuke"); ok {
		t.Error("unknown kind has a cost")
	}
}

func TestCooldownPurge(t *testing.T) {
	now := time.Unix(1000, 0)
	c := Cooldowns{
		{Kind: model.AttackBlur, AttackerID: "a", TargetID: "b"}:  now.Add(-time.Second),
		{Kind: model.AttackShake, AttackerID: "a", TargetID: "b"}: now.Add(time.Second),
	}
	c.Purge(now)
	if len(c) != 1 {
		t.Fatalf("len after purge = %d, want 1", len(c))
	}
}
