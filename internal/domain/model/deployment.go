package model

import "time"

// Deployment is one journal row recording a push or promote attempt and how
// it ended. The journal is local bookkeeping only; it never participates in
// the deployment protocol itself.
type Deployment struct {
	ID          int64
	Artifact    string
	Environment Environment
	Action      string // "push" | "promote"
	Outcome     Outcome
	Operator    string
	Message     string
	StartedAt   time.Time
	FinishedAt  time.Time
}
