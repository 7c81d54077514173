package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_WrapsOp(t *testing.T) {
	err := error(&Error{Op: OpJSONGet, Err: context.DeadlineExceeded})
	if err.Error() != "JSON.GET: context deadline exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to see the wrapped error")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpJSONGet {
		t.Errorf("errors.As failed: %v", err)
	}
}
