// Package session persists chats as one YAML file per session key.
package session

import (
	"strings"
	"time"

	"github.com/linanwx/nagochat/provider"
)

// Session is one stored chat.
type Session struct {
	Key       string             `yaml:"key"`
	Title     string             `yaml:"title,omitempty"`
	Messages  []provider.Message `yaml:"messages"`
	CreatedAt time.Time          `yaml:"createdAt"`
	UpdatedAt time.Time          `yaml:"updatedAt"`
}

// Append adds messages and refreshes UpdatedAt. The first user message
// becomes the title when none is set.
func (s *Session) Append(msgs ...provider.Message) {
	s.Messages = append(s.Messages, msgs...)
	if s.Title == "" {
		for _, m := range s.Messages {
			if m.Role == "user" && strings.TrimSpace(m.Content) != "" {
				s.Title = titleFrom(m.Content)
				break
			}
		}
	}
	s.UpdatedAt = time.Now()
}

// History returns at most limit trailing messages. limit <= 0 returns all.
func (s *Session) History(limit int) []provider.Message {
	msgs := s.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]provider.Message(nil), msgs...)
}

// Preview returns the last message, shortened for list display.
func (s *Session) Preview() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return titleFrom(s.Messages[len(s.Messages)-1].Content)
}

const titleMaxRunes = 40

func titleFrom(text string) string {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(text), "\n", 2)[0])
	r := []rune(line)
	if len(r) > titleMaxRunes {
		return string(r[:titleMaxRunes-1]) + "…"
	}
	return line
}
