package errors

import "testing"

// TestRecoverMiddlewareSwallowsPanic verifies that a deferred
// RecoverMiddleware()() stops a panic from escaping a goroutine.
func TestRecoverMiddlewareSwallowsPanic(t *testing.T) {
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverMiddleware()()
		panic("boom")
	}()

	<-done
}

// TestRecoverMiddlewareNoPanic verifies the recovery function is a no-op
// when nothing panicked
func TestRecoverMiddlewareNoPanic(t *testing.T) {
	RecoverMiddleware()()
}

func TestErrorHandlerIncrement(t *testing.T) {
	h := &ErrorHandler{
		stopChan:  make(chan struct{}),
		maxErrors: 15,
	}

	h.IncrementError()
	h.IncrementError()

	if h.errorCount != 2 {
		t.Errorf("errorCount = %d, want 2", h.errorCount)
	}
}
