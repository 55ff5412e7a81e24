// Package tokens estimates prompt sizes for the status bar and context checks.
package tokens

import (
	"sync"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"

	"github.com/linanwx/nagochat/logger"
)

var (
	once  sync.Once
	codec tokenizer.Codec
)

func load() tokenizer.Codec {
	once.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			logger.Warn("tokenizer unavailable, using estimate", "err", err)
			return
		}
		codec = c
	})
	return codec
}

// Count returns the number of cl100k tokens in text. When the codec can not
// be loaded it falls back to one token per four runes.
func Count(text string) int {
	if text == "" {
		return 0
	}
	c := load()
	if c == nil {
		return Estimate(text)
	}
	ids, _, err := c.Encode(text)
	if err != nil {
		return Estimate(text)
	}
	return len(ids)
}

// Estimate is the rune-based fallback used when no codec is available.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
