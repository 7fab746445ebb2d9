package clients

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"ChatBoxAI/app/chat"
)

var _ Interface = &DiscordClient{}

// DiscordClient bridges Discord channels to the chat service. Each channel
// maps to its own conversation so context never leaks between channels.
type DiscordClient struct {
	Client
	session       *discordgo.Session
	channelID     string
	mu            sync.Mutex
	conversations map[string]int64
}

func NewDiscordClientFromConfig(cfg map[string]string) (*DiscordClient, error) {
	token := cfg["token"]
	if token == "" {
		return nil, fmt.Errorf("discord client requires a token")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	dc := &DiscordClient{
		session:       session,
		channelID:     cfg["channel_id"],
		conversations: make(map[string]int64),
	}

	session.AddHandler(dc.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	return dc, nil
}

func (c *DiscordClient) Subscribe(svc *chat.Service) {
	c.chat = svc
	if err := c.session.Open(); err != nil {
		log.Printf("❌ Error opening Discord session: %v", err)
		return
	}
	log.Println("✅ Discord client started. Listening for messages...")
}

func (c *DiscordClient) Close() error {
	return c.session.Close()
}

func (c *DiscordClient) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if c.channelID != "" && m.ChannelID != c.channelID {
		return
	}

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}
	if content == "!reset" {
		c.resetConversation(m.ChannelID)
		s.ChannelMessageSend(m.ChannelID, "Conversation reset.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	outcome, err := c.chat.Respond(ctx, snowflakeToUserID(m.Author.ID), content, c.conversationFor(m.ChannelID))
	if err != nil {
		log.Printf("❌ Error answering Discord message: %v", err)
		return
	}
	c.rememberConversation(m.ChannelID, outcome.ConversationID)

	if _, err = s.ChannelMessageSend(m.ChannelID, outcome.Answer); err != nil {
		log.Printf("⚠️ Error sending Discord reply: %v", err)
	}
}

func (c *DiscordClient) conversationFor(channelID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversations[channelID]
}

func (c *DiscordClient) rememberConversation(channelID string, conversationID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations[channelID] = conversationID
}

func (c *DiscordClient) resetConversation(channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conversations, channelID)
}

// snowflakeToUserID folds a Discord snowflake into the numeric user id space
// used by the conversation store.
func snowflakeToUserID(snowflake string) int64 {
	if id, err := strconv.ParseInt(snowflake, 10, 64); err == nil {
		return id
	}
	var h int64
	for _, r := range snowflake {
		h = h*31 + int64(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}
