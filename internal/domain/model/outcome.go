package model

// Outcome is the terminal state of a push or promote run.
type Outcome string

const (
	OutcomeCommitted          Outcome = "committed"
	OutcomeRolledBackRestored Outcome = "rolled_back_restored"
	OutcomeRolledBackDeleted  Outcome = "rolled_back_deleted"
	OutcomeAborted            Outcome = "aborted"
	OutcomeDeclined           Outcome = "confirmation_declined"
)

// Success reports whether the remote ended up with the new content.
func (o Outcome) Success() bool { return o == OutcomeCommitted }
