package mongo

import (
	"errors"
	"strings"
	"testing"
)

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := unavailable("pinging localhost:27017", cause)

	if !errors.Is(err, ErrUnavailable) {
		t.Error("expected wrapped error to match ErrUnavailable")
	}
	if !strings.Contains(err.Error(), "server selection timeout") {
		t.Errorf("cause missing from message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "pinging localhost:27017") {
		t.Errorf("operation missing from message: %q", err.Error())
	}
}
