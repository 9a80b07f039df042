package tokens

import (
	"strings"
	"testing"
)

func TestNewCounter_DefaultEncoding(t *testing.T) {
	c := NewCounter("")
	if c.Encoding != DefaultEncoding {
		t.Errorf("Encoding = %q, want %q", c.Encoding, DefaultEncoding)
	}

	c = NewCounter("o200k_base")
	if c.Encoding != "o200k_base" {
		t.Errorf("Encoding = %q, want %q", c.Encoding, "o200k_base")
	}
}

func TestCount_UnknownEncoding(t *testing.T) {
	c := NewCounter("not-an-encoding")

	_, err := c.Count("hello")
	if err == nil {
		t.Fatal("Count() expected error for unknown encoding")
	}
	if !strings.Contains(err.Error(), `failed to load encoding "not-an-encoding"`) {
		t.Errorf("error = %q, missing context", err.Error())
	}

	// The load error is sticky.
	if _, again := c.Count(""); again == nil {
		t.Error("second Count() expected the same error")
	}
}
