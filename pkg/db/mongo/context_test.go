package mongo

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errInvalid = errors.New("invalid id")

func TestWithTimeout_ShorterParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, done := WithTimeout(parent, time.Minute)
	defer done()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > time.Second {
		t.Errorf("deadline should follow the shorter parent, got %v", time.Until(deadline))
	}
}

func TestWithTimeout_NoParentDeadline(t *testing.T) {
	ctx, done := WithTimeout(context.Background(), time.Second)
	defer done()

	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline")
	}
}

func TestObjectID(t *testing.T) {
	if _, err := ObjectID("65f1c2a9e4b0a1b2c3d4e5f6", errInvalid); err != nil {
		t.Errorf("valid hex rejected: %v", err)
	}

	_, err := ObjectID("not-an-id", errInvalid)
	if !errors.Is(err, errInvalid) {
		t.Errorf("expected wrapped errInvalid, got %v", err)
	}
}
