package redis

import (
	"fmt"

	"github.com/guesswho/guesswho-go/internal/model"
)

// Key prefixes for the different record types
const (
	userIDCounter    = "guesswho:counter:user"
	gameIDCounter    = "guesswho:counter:game"
	messageIDCounter = "guesswho:counter:message"
	userIndexKey     = "guesswho:users"
)

func userKey(id model.UserID) string {
	return fmt.Sprintf("guesswho:user:%d", id)
}

func usernameKey(username string) string {
	return "guesswho:username:" + username
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("guesswho:game:%d", id)
}

func messagesKey(gameID model.GameID) string {
	return fmt.Sprintf("guesswho:messages:%d", gameID)
}
