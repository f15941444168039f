package tokens

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Counter estimates prompt token counts so callers can watch their input
// budget before paying for a generation call.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter constructs a lazy counter; the encoding is loaded on first use.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the token count for text. When the encoding cannot be
// loaded (offline environments) it falls back to a chars/4 estimate, which
// is good enough for an advisory budget check.
func (c *Counter) Count(text string) int {
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return utf8.RuneCountInString(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}
