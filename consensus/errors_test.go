package consensus

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := newErr(KindSlotInFuture, "too far ahead")
	if !Is(err, KindSlotInFuture) {
		t.Error("Is should match the error's own kind")
	}
	if Is(err, KindSlotInPast) {
		t.Error("Is should not match an unrelated kind")
	}
}

func TestIsMatchesKindThroughWrappedError(t *testing.T) {
	inner := newErr(KindInvalidTicketVRFIndex, "bad index")
	outer := fmt.Errorf("import block: %w", inner)
	if !Is(outer, KindInvalidTicketVRFIndex) {
		t.Error("Is should unwrap through a fmt.Errorf-wrapped *Error")
	}
	if Is(outer, KindSlotInPast) {
		t.Error("Is should not match an unrelated kind through a wrapped error")
	}
}

func TestWrapErrUnwraps(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := wrapErr(KindClient, "store read failed", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestOnlySlotInFutureIsRetryable(t *testing.T) {
	for _, k := range []Kind{
		KindNoPreRuntimeDigest, KindInvalidSeal, KindSlotInPast,
		KindParentUnavailable, KindRuntime, KindClient,
	} {
		if (&Error{Kind: k}).Retryable() {
			t.Errorf("kind %q should not be retryable", k)
		}
	}
	if !(&Error{Kind: KindSlotInFuture}).Retryable() {
		t.Error("KindSlotInFuture should be retryable")
	}
}
