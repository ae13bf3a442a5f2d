package boilerscore

import (
	"errors"
	"testing"
)

func TestErrorSlice(t *testing.T) {
	es := ErrorSlice([]error{
		errors.New("a"),
		errors.New("b"),
		errors.New("c"),
	})

	if es.Error() != "a\nb\nc\n" {
		t.Error("unexpected error output")
	}

	if es[:0].errOrNil() != nil {
		t.Error("expected empty slice to be nil")
	}
}

func TestErrorSliceUnwrap(t *testing.T) {
	es := ErrorSlice{errors.New("a"), ErrInvalidArgument}
	if !errors.Is(es, ErrInvalidArgument) {
		t.Fatal("expected ErrInvalidArgument to be found")
	}
}
