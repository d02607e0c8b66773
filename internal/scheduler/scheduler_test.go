package scheduler

import (
	"testing"
	"time"
)

func TestAfterFuncRunsOnce(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	fired := make(chan struct{}, 4)
	if _, err := s.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatalf("task did not fire")
	}

	select {
	case <-fired:
		t.Fatalf("task fired more than once")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestAfterFuncCancelled(t *testing.T) {
	s := New()
	s.Start()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	h, err := s.AfterFunc(100*time.Millisecond, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.Cancel()
	h.Cancel()

	select {
	case <-fired:
		t.Fatalf("cancelled task fired")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestAfterFuncRejectsNonPositiveDelay(t *testing.T) {
	s := New()
	if _, err := s.AfterFunc(0, func() {}); err == nil {
		t.Fatalf("expected error for zero delay")
	}
}
