package batch

import (
	"sync"
	"testing"

	"letitbit/internal/rpc"
)

func TestBatch_AddTake(t *testing.T) {
	b := New()
	if !b.IsEmpty() {
		t.Fatal("new batch is not empty")
	}

	if idx := b.Add(rpc.NewCall("key", "info", nil)); idx != 0 {
		t.Errorf("first index = %d, want 0", idx)
	}
	if idx := b.Add(rpc.NewCall("user", "info", nil)); idx != 1 {
		t.Errorf("second index = %d, want 1", idx)
	}

	calls := b.Take()
	if len(calls) != 2 {
		t.Fatalf("Take = %d calls, want 2", len(calls))
	}
	if calls[0].Route != "key/info" || calls[1].Route != "user/info" {
		t.Errorf("routes = %v", Routes(calls))
	}

	if !b.IsEmpty() {
		t.Error("batch not empty after Take")
	}
	if again := b.Take(); again != nil {
		t.Errorf("second Take = %v, want nil", again)
	}
}

func TestBatch_TakeDoesNotAlias(t *testing.T) {
	b := New()
	b.Add(rpc.NewCall("a", "one", nil))
	first := b.Take()

	b.Add(rpc.NewCall("b", "two", nil))
	if first[0].Route != "a/one" {
		t.Errorf("taken calls changed after Add: %v", Routes(first))
	}
	if got := Routes(b.Take()); len(got) != 1 || got[0] != "b/two" {
		t.Errorf("Routes = %v, want [b/two]", got)
	}
}

func TestBatch_ConcurrentAdd(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Add(rpc.NewCall("key", "info", nil))
		}()
	}
	wg.Wait()

	if b.Len() != 50 {
		t.Errorf("Len = %d, want 50", b.Len())
	}
}
