package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"type":"createRoom","data":"  Ana "}`))
	require.NoError(t, err)
	require.IsType(t, &CreateRoomRequest{}, req)
	assert.Equal(t, "Ana", req.(*CreateRoomRequest).PlayerName)

	req, err = DecodeRequest([]byte(`{"type":"joinRoom","data":{"roomId":"ab12","playerName":"Bia"}}`))
	require.NoError(t, err)
	join := req.(*JoinRoomRequest)
	assert.Equal(t, "ab12", join.RoomID)
	assert.Equal(t, "Bia", join.PlayerName)

	req, err = DecodeRequest([]byte(`{"type":"startGame","data":"AB12"}`))
	require.NoError(t, err)
	assert.Equal(t, "AB12", req.(*StartGameRequest).RoomID)

	req, err = DecodeRequest([]byte(`{"type":"placeBet","data":{"roomId":"AB12","playerId":"c1","bet":0}}`))
	require.NoError(t, err)
	bet := req.(*PlaceBetRequest)
	require.NotNil(t, bet.Bet)
	assert.Equal(t, 0, *bet.Bet)
	assert.Equal(t, TypePlaceBet, bet.Type())

	req, err = DecodeRequest([]byte(`{"type":"playCard","data":{"roomId":"AB12","playerId":"c1","cardIndex":2}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, *req.(*PlayCardRequest).CardIndex)
}

func TestDecodeRequestRejects(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want error
	}{
		"not json":          {`{"type":`, ErrBadPayload},
		"unknown type":      {`{"type":"chat","data":"hi"}`, ErrUnknownRequest},
		"missing data":      {`{"type":"createRoom"}`, ErrBadPayload},
		"blank name":        {`{"type":"createRoom","data":"   "}`, ErrBadPayload},
		"object for string": {`{"type":"startGame","data":{"roomId":"AB12"}}`, ErrBadPayload},
		"missing room":      {`{"type":"joinRoom","data":{"playerName":"Bia"}}`, ErrBadPayload},
		"negative bet":      {`{"type":"placeBet","data":{"roomId":"AB12","playerId":"c1","bet":-1}}`, ErrBadPayload},
		"missing bet":       {`{"type":"placeBet","data":{"roomId":"AB12","playerId":"c1"}}`, ErrBadPayload},
		"string bet":        {`{"type":"placeBet","data":{"roomId":"AB12","playerId":"c1","bet":"2"}}`, ErrBadPayload},
		"missing player":    {`{"type":"playCard","data":{"roomId":"AB12","cardIndex":0}}`, ErrBadPayload},
		"negative index":    {`{"type":"playCard","data":{"roomId":"AB12","playerId":"c1","cardIndex":-3}}`, ErrBadPayload},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tc.raw))
			assert.Nil(t, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestConnectionWriteDropsWhenFull(t *testing.T) {
	c := NewConnection("test", 1)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Write([]byte("a")))
	assert.False(t, c.Write([]byte("b")))
	assert.Equal(t, []byte("a"), <-c.OutChan)
}
