package domain

// Phase represents the room's current position in the round state machine.
type Phase string

const (
	PhaseJoining           Phase = "joining"            // Waiting for players to join and ready up
	PhaseLeaderSubmitting  Phase = "leader_submitting"  // Leader picks a card and a description
	PhasePlayersSubmitting Phase = "players_submitting" // Everyone else submits a card face-down
	PhaseVoting            Phase = "voting"             // Non-leaders vote for the leader's card
	PhaseResults           Phase = "results"            // Scores resolved, authorship revealed
	PhaseFinished          Phase = "finished"           // Terminal; no further mutation accepted
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

var phaseTransitions = map[Phase][]Phase{
	PhaseJoining:           {PhaseLeaderSubmitting},
	PhaseLeaderSubmitting:  {PhasePlayersSubmitting},
	PhasePlayersSubmitting: {PhaseVoting},
	PhaseVoting:            {PhaseResults},
	PhaseResults:           {PhaseLeaderSubmitting, PhaseFinished},
	PhaseFinished:          {},
}

// CanTransitionTo reports whether moving from p to target is a legal
// state-machine step.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range phaseTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}
