package testutil

import (
	"time"

	"github.com/runixer/telebind/internal/telegram"
)

// TestUser returns the sender used by message fixtures.
func TestUser() telegram.User {
	return telegram.User{ID: 7, FirstName: "Ann", Username: Ptr("ann")}
}

// TextMessage returns a private-chat text message from TestUser. The date
// grows with id so fixtures sort the same way by id and by time.
func TextMessage(chatID int64, id int, text string) telegram.Message {
	return telegram.Message{
		MessageID: id,
		From:      TestUser(),
		Date:      time.Unix(1700000000+int64(id), 0),
		Chat:      telegram.Chat{ID: chatID, Type: telegram.ChatPrivate, FirstName: Ptr("Ann")},
		Content:   telegram.Text(text),
	}
}
