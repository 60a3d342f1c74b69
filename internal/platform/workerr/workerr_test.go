package workerr

import (
	"errors"
	"testing"
)

func TestIsNotReady(t *testing.T) {
	if !IsNotReady(NotReady()) {
		t.Fatal("NotReady() should be IsNotReady")
	}
	if IsNotReady(Provider(errors.New("boom"), nil)) {
		t.Fatal("Provider error should not be IsNotReady")
	}
	if IsNotReady(errors.New("plain")) {
		t.Fatal("a plain error should not be IsNotReady")
	}
	if IsNotReady(nil) {
		t.Fatal("nil error should not be IsNotReady")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Fatal("nil error should not be retryable")
	}
	if Retryable(NotReady()) {
		t.Fatal("NotReady should not be retryable")
	}
	cases := []*Error{
		Provider(errors.New("x"), nil),
		Network(errors.New("x"), nil),
		Validation(errors.New("x"), nil),
		Storage(errors.New("x"), nil),
		New(KindTerminal, errors.New("x"), nil),
	}
	for _, c := range cases {
		if !Retryable(c) {
			t.Fatalf("expected %s to be retryable", c.Kind)
		}
	}
	if !Retryable(errors.New("non-workerr error")) {
		t.Fatal("a non-workerr error should default to retryable")
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := Provider(cause, map[string]any{"foo": "bar"})

	if e.Error() != "provider_error: root cause" {
		t.Fatalf("unexpected message: %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatal("expected errors.Is to unwrap to cause")
	}

	bare := NotReady()
	if bare.Error() != "not_ready" {
		t.Fatalf("expected bare kind message, got %q", bare.Error())
	}

	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil *Error should stringify to empty, got %q", nilErr.Error())
	}
}
