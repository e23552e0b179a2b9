package domain

import (
	"math/rand"
	"time"
)

// Room is one game instance: its players in stable join order, the deck,
// per-player hands, and the current round's submissions and votes. All
// mutation goes through the phase-guarded operations below; an operation
// that fails leaves the room unchanged.
type Room struct {
	ID                 string          `json:"id"`
	Players            []*Player       `json:"players"`
	Deck               Deck            `json:"deck"`
	Hands              map[string]Hand `json:"hands"`
	RoundNumber        int             `json:"roundNumber"`
	LeaderID           string          `json:"leaderId"`
	CurrentDescription string          `json:"currentDescription"`
	Submissions        Submissions     `json:"submissions"`
	Votes              Votes           `json:"votes"`
	Phase              Phase           `json:"phase"`
	Settings           Settings        `json:"settings"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// NewRoom creates a room in the joining phase owning a copy of the
// provider's card pool.
func NewRoom(id string, cards []Card, settings Settings) *Room {
	return &Room{
		ID:          id,
		Players:     make([]*Player, 0, settings.MaxPlayers),
		Deck:        NewDeck(cards),
		Hands:       make(map[string]Hand),
		RoundNumber: 0,
		Phase:       PhaseJoining,
		Settings:    settings,
		CreatedAt:   time.Now(),
	}
}

// AddPlayer appends a player to the room in join order. Joining is only
// possible before the game starts.
func (r *Room) AddPlayer(player *Player) error {
	if r.Phase != PhaseJoining {
		return ErrInvalidPhase
	}
	if len(r.Players) >= r.Settings.MaxPlayers {
		return ErrRoomFull
	}
	for _, p := range r.Players {
		if p.Username == player.Username {
			return ErrUsernameTaken
		}
	}
	player.RoomID = r.ID
	r.Players = append(r.Players, player)
	return nil
}

// GetPlayer returns the room member with the given id.
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// SetReady marks a player as ready to start.
func (r *Room) SetReady(playerID string) error {
	if r.Phase != PhaseJoining {
		return ErrInvalidPhase
	}
	player, err := r.GetPlayer(playerID)
	if err != nil {
		return err
	}
	player.Status = StatusReady
	return nil
}

// ActivePlayers returns the players currently counting toward quorums.
func (r *Room) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// ActiveNonLeaders returns the active players other than the leader.
func (r *Room) ActiveNonLeaders() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.IsActive() && p.ID != r.LeaderID {
			players = append(players, p)
		}
	}
	return players
}

// AllReady reports whether every joined player has readied up.
func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if !p.IsReady() {
			return false
		}
	}
	return true
}

// CanStart reports whether the player count allows starting a game.
func (r *Room) CanStart() bool {
	return len(r.Players) >= r.Settings.MinPlayers && len(r.Players) <= r.Settings.MaxPlayers
}

// Hand returns the cards the given player currently holds.
func (r *Room) Hand(playerID string) Hand {
	return r.Hands[playerID]
}

// StartGame deals a freshly shuffled hand to every player from a single
// pass over the deck and makes the first joiner the leader.
func (r *Room) StartGame(rng *rand.Rand) error {
	if r.Phase != PhaseJoining {
		return ErrInvalidPhase
	}
	if !r.CanStart() {
		return ErrNotEnoughPlayers
	}
	if !r.AllReady() {
		return ErrPlayersNotReady
	}
	if len(r.Deck) < len(r.Players)*r.Settings.CardsPerPlayer {
		return ErrNotEnoughCards
	}

	r.Deck.Shuffle(rng)
	for _, p := range r.Players {
		cards, err := r.Deck.Draw(r.Settings.CardsPerPlayer)
		if err != nil {
			return err
		}
		r.Hands[p.ID] = cards
	}

	r.LeaderID = r.Players[0].ID
	r.RoundNumber = 1
	r.Submissions = nil
	r.Votes = nil
	r.CurrentDescription = ""
	r.Phase = PhaseLeaderSubmitting

	return nil
}

// LeaderSubmit records the leader's card and description and opens the
// round for everyone else.
func (r *Room) LeaderSubmit(playerID, cardID, description string) error {
	if r.Phase != PhaseLeaderSubmitting {
		return ErrInvalidPhase
	}
	if playerID != r.LeaderID {
		return ErrUnauthorized
	}

	card, rest, err := r.Hands[playerID].Remove(cardID)
	if err != nil {
		return err
	}
	r.Hands[playerID] = rest

	r.Submissions = append(r.Submissions, Submission{PlayerID: playerID, Card: card})
	r.CurrentDescription = description
	r.Phase = PhasePlayersSubmitting

	return nil
}

// PlayerSubmit records a non-leader's face-down card for this round.
func (r *Room) PlayerSubmit(playerID, cardID string) error {
	if r.Phase != PhasePlayersSubmitting {
		return ErrInvalidPhase
	}
	if playerID == r.LeaderID {
		return ErrUnauthorized
	}
	if _, err := r.GetPlayer(playerID); err != nil {
		return err
	}
	if r.Submissions.HasPlayer(playerID) {
		return ErrDuplicateAction
	}

	card, rest, err := r.Hands[playerID].Remove(cardID)
	if err != nil {
		return err
	}
	r.Hands[playerID] = rest

	r.Submissions = append(r.Submissions, Submission{PlayerID: playerID, Card: card})

	return nil
}

// AllSubmitted reports whether every online non-leader player has exactly
// one recorded submission.
func (r *Room) AllSubmitted() bool {
	nonLeaders := r.ActiveNonLeaders()
	if len(nonLeaders) == 0 {
		return false
	}
	for _, p := range nonLeaders {
		if !r.Submissions.HasPlayer(p.ID) {
			return false
		}
	}
	return true
}

// BeginVoting shuffles the assembled submissions so presentation order
// leaks no authorship, then opens voting.
func (r *Room) BeginVoting(rng *rand.Rand) error {
	if r.Phase != PhasePlayersSubmitting {
		return ErrInvalidPhase
	}
	rng.Shuffle(len(r.Submissions), func(i, j int) {
		r.Submissions[i], r.Submissions[j] = r.Submissions[j], r.Submissions[i]
	})
	r.Phase = PhaseVoting
	return nil
}

// CastVote records a non-leader's guess at the leader's card. A player
// cannot vote twice, and cannot vote for their own submission.
func (r *Room) CastVote(voterID, cardID string) error {
	if r.Phase != PhaseVoting {
		return ErrInvalidPhase
	}
	if voterID == r.LeaderID {
		return ErrUnauthorized
	}
	if _, err := r.GetPlayer(voterID); err != nil {
		return err
	}
	if r.Votes.HasVoter(voterID) {
		return ErrDuplicateAction
	}
	owner, ok := r.Submissions.Owner(cardID)
	if !ok {
		return ErrCardNotFound
	}
	if owner == voterID {
		return ErrCannotVoteOwnCard
	}

	r.Votes = append(r.Votes, Vote{VoterID: voterID, CardID: cardID})

	return nil
}

// AllVoted reports whether every online non-leader player has voted.
func (r *Room) AllVoted() bool {
	nonLeaders := r.ActiveNonLeaders()
	if len(nonLeaders) == 0 {
		return false
	}
	for _, p := range nonLeaders {
		if !r.Votes.HasVoter(p.ID) {
			return false
		}
	}
	return true
}

// LeaderSubmission returns the leader's face-down card for this round.
func (r *Room) LeaderSubmission() (Submission, error) {
	sub, ok := r.Submissions.ByPlayer(r.LeaderID)
	if !ok {
		return Submission{}, ErrCardNotFound
	}
	return sub, nil
}

// FinishVoting resolves the round's scores, applies them, and moves the
// room to the results phase. It returns the per-player point deltas.
func (r *Room) FinishVoting() (map[string]int, error) {
	if r.Phase != PhaseVoting {
		return nil, ErrInvalidPhase
	}

	deltas, err := ResolveScores(r)
	if err != nil {
		return nil, err
	}
	for _, p := range r.Players {
		p.AddPoints(deltas[p.ID])
	}
	r.Phase = PhaseResults

	return deltas, nil
}

// HasWinner reports whether any player has reached the winning score.
func (r *Room) HasWinner() bool {
	for _, p := range r.Players {
		if p.Score >= r.Settings.WinningScore {
			return true
		}
	}
	return false
}

// Winner returns the highest-scoring player once the game is decided.
func (r *Room) Winner() (*Player, error) {
	if !r.HasWinner() {
		return nil, ErrInvalidPhase
	}
	winner := r.Players[0]
	for _, p := range r.Players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	return winner, nil
}

// NextLeader returns the player after the current leader in stable join
// order, wrapping around.
func (r *Room) NextLeader() string {
	for i, p := range r.Players {
		if p.ID == r.LeaderID {
			return r.Players[(i+1)%len(r.Players)].ID
		}
	}
	return r.Players[0].ID
}

// StartNextRound rotates the leader and opens the next round, or finishes
// the game if any player has reached the winning score. It reports
// whether the room transitioned to finished.
func (r *Room) StartNextRound() (finished bool, err error) {
	if r.Phase != PhaseResults {
		return false, ErrInvalidPhase
	}

	if r.HasWinner() {
		r.Phase = PhaseFinished
		return true, nil
	}

	r.LeaderID = r.NextLeader()
	r.RoundNumber++
	r.Submissions = nil
	r.Votes = nil
	r.CurrentDescription = ""
	r.Phase = PhaseLeaderSubmitting

	return false, nil
}

// Scores returns the current total score per player.
func (r *Room) Scores() map[string]int {
	scores := make(map[string]int, len(r.Players))
	for _, p := range r.Players {
		scores[p.ID] = p.Score
	}
	return scores
}
