package keyedmutex

import (
	"sync"
	"testing"
)

func TestSameKeySerializes(t *testing.T) {
	km := New()
	const workers = 50

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			km.Lock("session:a")
			counter++
			km.Unlock("session:a")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
	km.mu.Lock()
	remaining := len(km.entries)
	km.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected no retained entries after unlock, got %d", remaining)
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	km := New()
	km.Lock("session:a")
	defer km.Unlock("session:a")

	done := make(chan struct{})
	go func() {
		km.Lock("session:b")
		km.Unlock("session:b")
		close(done)
	}()
	<-done
}

func TestUnlockUnheldKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unlock of unheld key")
		}
	}()
	New().Unlock("session:never-locked")
}
