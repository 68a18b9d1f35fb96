// internal/body/accumulator_test.go
//
// Unit-tests for the bounded accumulator.
//
// Run: go test ./internal/body -v

package body

import (
	"bytes"
	"errors"
	"testing"
)

func TestAccumulator_ConcatInArrivalOrder(t *testing.T) {
	acc := NewAccumulator()

	chunks := [][]byte{[]byte("alpha "), []byte("beta "), []byte("gamma")}
	for i, c := range chunks {
		if err := acc.Accept(c); err != nil {
			t.Fatalf("Accept chunk %d: %v", i, err)
		}
	}

	got, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if want := []byte("alpha beta gamma"); !bytes.Equal(got, want) {
		t.Fatalf("Finalize = %q, want %q", got, want)
	}
}

func TestAccumulator_CallerMayReuseChunkSlice(t *testing.T) {
	acc := NewAccumulator()

	buf := []byte("aa")
	if err := acc.Accept(buf); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	copy(buf, "zz") // simulate a reused read buffer
	if err := acc.Accept(buf); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	got, _ := acc.Finalize()
	if string(got) != "aazz" {
		t.Fatalf("Finalize = %q, want %q", got, "aazz")
	}
}

func TestAccumulator_ExactCeilingIsAccepted(t *testing.T) {
	acc := NewAccumulator()

	if err := acc.Accept(make([]byte, MaxBodyBytes)); err != nil {
		t.Fatalf("Accept at exact ceiling: %v", err)
	}
	got, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(got) != MaxBodyBytes {
		t.Fatalf("len = %d, want %d", len(got), MaxBodyBytes)
	}
}

func TestAccumulator_CeilingBreachIsTerminal(t *testing.T) {
	acc := NewAccumulator()

	if err := acc.Accept(make([]byte, MaxBodyBytes)); err != nil {
		t.Fatalf("Accept below ceiling: %v", err)
	}
	if err := acc.Accept([]byte{0}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Accept over ceiling = %v, want ErrPayloadTooLarge", err)
	}

	// Late chunks are discarded, not re-admitted.
	if err := acc.Accept([]byte("late")); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("late Accept = %v, want ErrPayloadTooLarge", err)
	}
	if !acc.Failed() {
		t.Fatal("Failed() = false after breach")
	}

	// An instance that breached the ceiling never reports success.
	if _, err := acc.Finalize(); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Finalize after breach = %v, want ErrPayloadTooLarge", err)
	}
}

func TestAccumulator_CompletedIsTerminal(t *testing.T) {
	acc := NewAccumulator()
	if err := acc.Accept([]byte("x")); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := acc.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if err := acc.Accept([]byte("y")); !errors.Is(err, ErrFinalized) {
		t.Fatalf("Accept after Finalize = %v, want ErrFinalized", err)
	}
	if _, err := acc.Finalize(); !errors.Is(err, ErrFinalized) {
		t.Fatalf("second Finalize = %v, want ErrFinalized", err)
	}
}
