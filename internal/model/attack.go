package model

import "time"

// AttackKind names a paid disruption effect
type AttackKind string

const (
	AttackBlur    AttackKind = "blur"
	AttackReverse AttackKind = "reverse"
	AttackShake   AttackKind = "shake"
	AttackFreeze  AttackKind = "freeze"
	AttackFake    AttackKind = "fake"
)

// AttackEffect is what the target receives: the kind and how long it lasts
type AttackEffect struct {
	Kind     AttackKind    `json:"type"`
	Duration time.Duration `json:"-"`
}

// AttackRecord is persisted once per successful attack
type AttackRecord struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	MatchID    string     `json:"matchId" bson:"matchId"`
	AttackerID string     `json:"attackerId" bson:"attackerId"`
	TargetID   string     `json:"targetId" bson:"targetId"`
	Kind       AttackKind `json:"attackType" bson:"attackType"`
	Cost       int        `json:"cost" bson:"cost"`
	UsedAt     time.Time  `json:"usedAt" bson:"usedAt"`
}
