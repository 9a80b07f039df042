package tokens

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Counter estimates prompt size with a tiktoken encoding.
// The encoding is loaded on first use.
type Counter struct {
	Encoding string

	once sync.Once
	tkm  *tiktoken.Tiktoken
	err  error
}

// NewCounter creates a Counter for the named encoding.
func NewCounter(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Counter{Encoding: encoding}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) (int, error) {
	c.once.Do(func() {
		c.tkm, c.err = tiktoken.GetEncoding(c.Encoding)
		if c.err != nil {
			c.err = fmt.Errorf("failed to load encoding %q: %w", c.Encoding, c.err)
		}
	})
	if c.err != nil {
		return 0, c.err
	}
	if text == "" {
		return 0, nil
	}
	return len(c.tkm.Encode(text, nil, nil)), nil
}
