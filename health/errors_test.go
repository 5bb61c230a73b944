package health

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: store", ErrCheckerNotFound)
	if !errors.Is(wrapped, ErrCheckerNotFound) {
		t.Error("wrapped sentinel not matched by errors.Is")
	}
	if ErrCheckFailed.Error() != "health: check failed" {
		t.Errorf("message = %q", ErrCheckFailed.Error())
	}
}
