package game

// Each engine operation has one validator. A validator never mutates state;
// the operation runs only when it returns nil.

func (gs *GameState) checkBet(playerID string, bet int) (int, error) {
	if gs.GameOver || !gs.BettingPhase {
		return -1, ErrIllegalTransition
	}
	if bet < 0 {
		return -1, ErrInvalidBet
	}
	seat := gs.SeatOf(playerID)
	if seat < 0 {
		return -1, ErrUnknownPlayer
	}
	return seat, nil
}

func (gs *GameState) checkPlay(playerID string, cardIndex int) (int, error) {
	if gs.GameOver || !gs.PlayingPhase || gs.TrickPending {
		return -1, ErrIllegalTransition
	}
	seat := gs.SeatOf(playerID)
	if seat < 0 {
		return -1, ErrUnknownPlayer
	}
	if seat != gs.CurrentPlayerIndex {
		return -1, ErrOutOfTurn
	}
	if cardIndex < 0 || cardIndex >= len(gs.Players[seat].Cards) {
		return -1, ErrInvalidCard
	}
	return seat, nil
}

func (gs *GameState) checkResolve() error {
	if gs.GameOver || !gs.PlayingPhase || !gs.TrickPending || len(gs.CurrentTrick) == 0 {
		return ErrIllegalTransition
	}
	return nil
}
