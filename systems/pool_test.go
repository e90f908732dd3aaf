package systems

import "testing"

type poolItem struct {
	Value int
	Live  bool
}

func resetPoolItem(p *poolItem) {
	*p = poolItem{}
}

func TestPoolAcquireReturnsReset(t *testing.T) {
	p := NewPool(2, 2, resetPoolItem)

	a := p.Acquire()
	a.Value = 42
	a.Live = true
	p.Release(a)

	b := p.Acquire()
	if b.Value != 0 || b.Live {
		t.Errorf("acquired item not reset: %+v", *b)
	}
}

func TestPoolGrowthAccounting(t *testing.T) {
	tests := []struct {
		name          string
		initial       int
		batch         int
		acquires      int
		wantAllocated int
		wantGrowths   int
	}{
		{"within initial", 4, 3, 4, 4, 0},
		{"one growth", 4, 3, 5, 7, 1},
		{"two growths", 4, 3, 10, 10, 2},
		{"batch exactly", 2, 2, 6, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.initial, tt.batch, resetPoolItem)
			for i := 0; i < tt.acquires; i++ {
				p.Acquire()
			}
			if got := p.Allocated(); got != tt.wantAllocated {
				t.Errorf("Allocated() = %d, want %d", got, tt.wantAllocated)
			}
			if got := p.Growths(); got != tt.wantGrowths {
				t.Errorf("Growths() = %d, want %d", got, tt.wantGrowths)
			}
			// Growth is fixed-batch, never doubling
			if p.Allocated() != tt.initial+tt.wantGrowths*tt.batch {
				t.Errorf("allocation not initial + k*batch: %d", p.Allocated())
			}
		})
	}
}

func TestPoolReleaseRecycles(t *testing.T) {
	p := NewPool(1, 1, resetPoolItem)

	a := p.Acquire()
	p.Release(a)
	b := p.Acquire()

	if a != b {
		t.Error("released item was not recycled")
	}
	if p.Allocated() != 1 {
		t.Errorf("Allocated() = %d, want 1", p.Allocated())
	}
}

func TestPoolReleaseNil(t *testing.T) {
	p := NewPool(1, 1, resetPoolItem)
	p.Release(nil) // must not panic or corrupt the free list
	if p.FreeCount() != 1 {
		t.Errorf("FreeCount() = %d, want 1", p.FreeCount())
	}
}

func TestPoolDispose(t *testing.T) {
	p := NewPool(8, 4, resetPoolItem)
	p.Acquire()
	p.Dispose()

	if p.Allocated() != 0 || p.FreeCount() != 0 {
		t.Errorf("Dispose left storage: allocated=%d free=%d", p.Allocated(), p.FreeCount())
	}
}
