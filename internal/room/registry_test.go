package room

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/jason-s-yu/fodinha/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)

func newTestRegistry() *Registry {
	return NewRegistry(rand.New(rand.NewSource(1)))
}

func TestCreateRoomMakesHost(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")

	assert.Regexp(t, codePattern, r.ID)
	assert.Equal(t, StatusWaiting, r.Status)
	assert.Nil(t, r.Game)
	require.Len(t, r.Players, 1)
	assert.Equal(t, "Ana", r.Players[0].Name)
	assert.Equal(t, "c1", r.Players[0].ID)
	assert.True(t, r.Players[0].IsHost)
	assert.False(t, r.Players[0].Ready)

	got, ok := reg.GetRoom(r.ID)
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestRoomCodesAreUnique(t *testing.T) {
	reg := newTestRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		r := reg.CreateRoom("host", fmt.Sprintf("c%d", i))
		assert.False(t, seen[r.ID], "code %s reused", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, 500, reg.Len())
}

func TestJoinRoom(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")

	_, err := reg.JoinRoom("ZZZZ", "Bia", "c2")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	joined, err := reg.JoinRoom(" "+strings.ToLower(r.ID)+" ", "Bia", "c2")
	require.NoError(t, err)
	assert.Same(t, r, joined)
	require.Len(t, r.Players, 2)
	assert.False(t, r.Players[1].IsHost)

	for i := 3; i <= MaxPlayers; i++ {
		_, err = reg.JoinRoom(r.ID, "p", fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}
	_, err = reg.JoinRoom(r.ID, "late", "c6")
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, "Room is full (maximum 5 players)", err.Error())
	assert.Len(t, r.Players, MaxPlayers)
}

func TestRemoveConnectionPromotesHost(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")
	_, err := reg.JoinRoom(r.ID, "Bia", "c2")
	require.NoError(t, err)
	_, err = reg.JoinRoom(r.ID, "Caio", "c3")
	require.NoError(t, err)

	updated, destroyed := reg.RemoveConnection("c1")
	assert.Empty(t, destroyed)
	require.Len(t, updated, 1)
	require.Len(t, r.Players, 2)
	assert.Equal(t, "c2", r.Players[0].ID)
	assert.True(t, r.Players[0].IsHost)
	assert.False(t, r.Players[1].IsHost)

	// removing a non-host keeps the host
	updated, _ = reg.RemoveConnection("c3")
	require.Len(t, updated, 1)
	assert.Equal(t, "c2", r.Host().ID)
}

func TestRemoveConnectionDestroysEmptyRoom(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")
	other := reg.CreateRoom("Bia", "c2")

	updated, destroyed := reg.RemoveConnection("c1")
	assert.Empty(t, updated)
	assert.Equal(t, []string{r.ID}, destroyed)

	_, ok := reg.GetRoom(r.ID)
	assert.False(t, ok)
	_, ok = reg.GetRoom(other.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Len())

	updated, destroyed = reg.RemoveConnection("nobody")
	assert.Empty(t, updated)
	assert.Empty(t, destroyed)
}

func TestRemoveConnectionLeavesGameUntouched(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")
	_, err := reg.JoinRoom(r.ID, "Bia", "c2")
	require.NoError(t, err)
	require.NoError(t, r.StartGame("c1", rand.New(rand.NewSource(3))))

	updated, _ := reg.RemoveConnection("c2")
	require.Len(t, updated, 1)
	assert.Equal(t, StatusPlaying, r.Status)
	assert.Len(t, r.Game.Players, 2, "the seat stays in the game")
}

func TestStartGame(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")
	_, err := reg.JoinRoom(r.ID, "Bia", "c2")
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))

	assert.ErrorIs(t, r.StartGame("c2", rng), game.ErrNotAuthorized)
	assert.Equal(t, StatusWaiting, r.Status)
	assert.Nil(t, r.Game)

	require.NoError(t, r.StartGame("c1", rng))
	assert.Equal(t, StatusPlaying, r.Status)
	require.NotNil(t, r.Game)
	assert.Equal(t, "Ana", r.Game.Players[0].Name)
	assert.Equal(t, "c2", r.Game.Players[1].ID)

	assert.ErrorIs(t, r.StartGame("c1", rng), game.ErrIllegalTransition)
}

func TestActionsRequirePlayingRoom(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")

	assert.ErrorIs(t, r.PlaceBet("c1", 0), game.ErrIllegalTransition)
	_, err := r.PlayCard("c1", 0)
	assert.ErrorIs(t, err, game.ErrIllegalTransition)
	_, err = r.ResolveTrick()
	assert.ErrorIs(t, err, game.ErrIllegalTransition)
}

func TestSummariesSortedByCode(t *testing.T) {
	reg := newTestRegistry()
	for i := 0; i < 5; i++ {
		reg.CreateRoom("host", fmt.Sprintf("c%d", i))
	}
	s := reg.Summaries()
	require.Len(t, s, 5)
	for i := 1; i < len(s); i++ {
		assert.Less(t, s[i-1].ID, s[i].ID)
	}
	assert.Equal(t, 1, s[0].PlayerCount)
	assert.Equal(t, StatusWaiting, s[0].Status)
	assert.Zero(t, s[0].Round)
}

func TestViewCopiesPlayers(t *testing.T) {
	reg := newTestRegistry()
	r := reg.CreateRoom("Ana", "c1")
	v := r.View()
	r.Players[0].Name = "changed"
	assert.Equal(t, "Ana", v.Players[0].Name)
	assert.Equal(t, StatusWaiting, v.Status)
}
