package clients

import (
	"ChatBoxAI/app/chat"
)

type Interface interface {
	Subscribe(*chat.Service)
}

type Client struct {
	chat *chat.Service
}
