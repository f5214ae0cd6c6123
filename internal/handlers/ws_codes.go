// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes sent by the game socket.
const (
	BadSubprotocolError     = 3000 // client did not negotiate the fodinha subprotocol
	GatewayUnavailableError = 3001 // the session gateway is shutting down
	RateLimitedError        = 3002 // client kept sending after its burst was spent
)
