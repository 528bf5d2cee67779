package redis

import (
	"fmt"

	"numduel/internal/model"
)

// Key prefix for all party data
const keyPrefix = "numduel"

// partyKey returns the Redis key for a Party document
func partyKey(code model.PartyCode) string {
	return fmt.Sprintf("%s:party:%s", keyPrefix, code)
}

// partyIndexKey returns the Redis key for the SET of active party codes
func partyIndexKey() string {
	return fmt.Sprintf("%s:idx:parties", keyPrefix)
}

// playerIndexKey returns the Redis key for the player_id -> party_code index
func playerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player:%s", keyPrefix, playerID)
}

// connIndexKey returns the Redis key for the connection_id -> player_id index
func connIndexKey(connID model.ConnectionID) string {
	return fmt.Sprintf("%s:idx:conn:%s", keyPrefix, connID)
}
