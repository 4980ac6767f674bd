package storage

import (
	"bytes"
	"errors"
	"testing"
)

func TestOverlayBuffersUntilCommit(t *testing.T) {
	base := NewMemDB()
	if err := base.Put([]byte("a"), []byte("base-a")); err != nil {
		t.Fatalf("seed base: %v", err)
	}

	overlay := NewOverlay(base)
	if err := overlay.Put([]byte("b"), []byte("overlay-b")); err != nil {
		t.Fatalf("overlay put: %v", err)
	}
	if err := overlay.Delete([]byte("a")); err != nil {
		t.Fatalf("overlay delete: %v", err)
	}

	// Reads through the overlay see the buffered view.
	if _, err := overlay.Get([]byte("a")); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected deleted key, got %v", err)
	}
	got, err := overlay.Get([]byte("b"))
	if err != nil {
		t.Fatalf("overlay get: %v", err)
	}
	if !bytes.Equal(got, []byte("overlay-b")) {
		t.Fatalf("got %q", got)
	}

	// The base is untouched until Commit.
	if got, err := base.Get([]byte("a")); err != nil || !bytes.Equal(got, []byte("base-a")) {
		t.Fatalf("base mutated before commit: %q %v", got, err)
	}
	if _, err := base.Get([]byte("b")); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("base gained key before commit: %v", err)
	}

	if err := overlay.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := base.Get([]byte("a")); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected committed delete, got %v", err)
	}
	if got, err := base.Get([]byte("b")); err != nil || !bytes.Equal(got, []byte("overlay-b")) {
		t.Fatalf("expected committed write, got %q %v", got, err)
	}
}

func TestOverlayDroppedLeavesBaseIntact(t *testing.T) {
	base := NewMemDB()
	if err := base.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("seed base: %v", err)
	}

	overlay := NewOverlay(base)
	if err := overlay.Put([]byte("k"), []byte("mutated")); err != nil {
		t.Fatalf("overlay put: %v", err)
	}
	// A failed instruction simply never commits its overlay.
	got, err := base.Get([]byte("k"))
	if err != nil || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("base must keep original value, got %q %v", got, err)
	}
}

func TestOverlayPutAfterDelete(t *testing.T) {
	base := NewMemDB()
	overlay := NewOverlay(base)
	if err := overlay.Delete([]byte("x")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := overlay.Put([]byte("x"), []byte("restored")); err != nil {
		t.Fatalf("put: %v", err)
	}
	has, err := overlay.Has([]byte("x"))
	if err != nil || !has {
		t.Fatalf("expected key present, got %v %v", has, err)
	}
	if err := overlay.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := base.Get([]byte("x"))
	if err != nil || !bytes.Equal(got, []byte("restored")) {
		t.Fatalf("expected restored value, got %q %v", got, err)
	}
}

func TestOverlayCommitIsReusable(t *testing.T) {
	base := NewMemDB()
	overlay := NewOverlay(base)
	if err := overlay.Put([]byte("first"), []byte("1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := overlay.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := overlay.Put([]byte("second"), []byte("2")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := overlay.Commit(); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	for _, key := range []string{"first", "second"} {
		if has, err := base.Has([]byte(key)); err != nil || !has {
			t.Fatalf("missing %s after commits", key)
		}
	}
}
