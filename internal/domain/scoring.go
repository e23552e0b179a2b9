package domain

// ResolveScores computes the per-player point deltas for the current
// round from the full submission and vote sets.
//
// Let V be the total votes cast and L the votes for the leader's card:
//   - the leader gains PointsForLeaderSuccess only if 0 < L < V, so a
//     round where everyone or no one found the leader's card pays the
//     leader nothing;
//   - every voter who picked the leader's card gains
//     PointsForGuessingLeader;
//   - every non-leader gains PointsPerVote per vote their own submitted
//     card received. Votes for the leader's card never count toward a
//     non-leader's own-card tally.
//
// The guess reward and the own-card reward are independent and can both
// fire for the same player in the same round.
func ResolveScores(r *Room) (map[string]int, error) {
	leaderSub, err := r.LeaderSubmission()
	if err != nil {
		return nil, err
	}

	deltas := make(map[string]int, len(r.Players))
	for _, p := range r.Players {
		deltas[p.ID] = 0
	}

	totalVotes := len(r.Votes)
	leaderVotes := r.Votes.CountFor(leaderSub.Card.ID)

	if leaderVotes > 0 && leaderVotes < totalVotes {
		deltas[r.LeaderID] += r.Settings.PointsForLeaderSuccess
	}

	for _, vote := range r.Votes {
		if vote.CardID == leaderSub.Card.ID {
			deltas[vote.VoterID] += r.Settings.PointsForGuessingLeader
		}
	}

	for _, p := range r.Players {
		if p.ID == r.LeaderID {
			continue
		}
		sub, ok := r.Submissions.ByPlayer(p.ID)
		if !ok {
			continue
		}
		deltas[p.ID] += r.Settings.PointsPerVote * r.Votes.CountFor(sub.Card.ID)
	}

	return deltas, nil
}
