package game

import (
	"fmt"
	"time"

	"triviabattle/internal/model"
)

// AttackCooldown applies per (kind, attacker, target)
const AttackCooldown = 5 * time.Second

type attackSpec struct {
	cost     int
	duration time.Duration
}

var attackTable = map[model.AttackKind]attackSpec{
	model.AttackBlur:    {cost: 10, duration: 4 * time.Second},
	model.AttackReverse: {cost: 15, duration: 5 * time.Second},
	model.AttackShake:   {cost: 12, duration: 3 * time.Second},
	model.AttackFreeze:  {cost: 20, duration: 2 * time.Second},
	model.AttackFake:    {cost: 18, duration: 10 * time.Second},
}

// AttackCost returns the coin cost of kind, or false if kind is unknown
func AttackCost(kind model.AttackKind) (int, bool) {
	spec, ok := attackTable[kind]
	return spec.cost, ok
}

// CooldownKey identifies one cooldown entry
type CooldownKey struct {
	Kind       model.AttackKind
	AttackerID string
	TargetID   string
}

// Cooldowns maps a key to its expiry
type Cooldowns map[CooldownKey]time.Time

// Active reports whether key has an unexpired entry at now
func (c Cooldowns) Active(key CooldownKey, now time.Time) bool {
	exp, ok := c[key]
	return ok && now.Before(exp)
}

// Purge removes every entry expired at now
func (c Cooldowns) Purge(now time.Time) {
	for k, exp := range c {
		if !now.Before(exp) {
			delete(c, k)
		}
	}
}

// AttackResolver validates and applies attacks. It holds no state of its
// own; cooldowns belong to the session passing them in.
type AttackResolver struct{}

// Resolve checks kind, cooldown and funds in that order and, on success,
// debits the attacker, bumps both counters and installs the cooldown.
func (AttackResolver) Resolve(attacker, target *model.MatchPlayer, kind model.AttackKind, cooldowns Cooldowns, now time.Time) (model.AttackEffect, error) {
	spec, ok := attackTable[kind]
	if !ok {
		return model.AttackEffect{}, fmt.Errorf("%w: %q", ErrUnknownAttackKind, kind)
	}
	key := CooldownKey{Kind: kind, AttackerID: attacker.ID, TargetID: target.ID}
	if cooldowns.Active(key, now) {
		return model.AttackEffect{}, fmt.Errorf("%w: %s", ErrOnCooldown, kind)
	}
	if attacker.Coins < spec.cost {
		return model.AttackEffect{}, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientCurrency, kind, spec.cost, attacker.Coins)
	}

	attacker.Coins -= spec.cost
	attacker.AttacksUsed++
	target.AttacksReceived++
	cooldowns[key] = now.Add(AttackCooldown)

	return model.AttackEffect{Kind: kind, Duration: spec.duration}, nil
}
