package arena

import (
	"context"
	"errors"
	"testing"
)

type item struct {
	a, b uint32
	f    float64
}

type countingAcquirer struct {
	limit int64
	used  int64
}

var errNoMemory = errors.New("no memory")

func (c *countingAcquirer) AcquireMemory(_ context.Context, amount int64) error {
	if c.limit > 0 && c.used+amount > c.limit {
		return errNoMemory
	}
	c.used += amount
	return nil
}

func (c *countingAcquirer) ReleaseMemory(amount int64) {
	c.used -= amount
}

func TestArena_New(t *testing.T) {
	t.Run("default chunk size", func(t *testing.T) {
		a := New[item](0)
		defer a.Free()

		if a.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize=%d, got %d", DefaultChunkSize, a.chunkSize)
		}
		if len(a.chunks) != 0 {
			t.Error("no chunk should be allocated before the first Alloc")
		}
	})

	t.Run("rounded chunk size", func(t *testing.T) {
		a := New[item](100)
		defer a.Free()

		if a.chunkSize != 128 {
			t.Errorf("expected chunkSize=128, got %d", a.chunkSize)
		}
	})

	t.Run("minimum chunk size", func(t *testing.T) {
		a := New[item](1)
		defer a.Free()

		if a.chunkSize != MinChunkSize {
			t.Errorf("expected chunkSize=%d, got %d", MinChunkSize, a.chunkSize)
		}
	})
}

func TestArena_Alloc(t *testing.T) {
	ctx := context.Background()

	t.Run("dense references", func(t *testing.T) {
		a := New[item](16)
		defer a.Free()

		for i := 0; i < 100; i++ {
			ref, v, err := a.Alloc(ctx)
			if err != nil {
				t.Fatalf("allocation %d failed: %v", i, err)
			}
			if ref != Ref(i) {
				t.Fatalf("expected ref %d, got %d", i, ref)
			}
			if v.a != 0 || v.b != 0 || v.f != 0 {
				t.Fatalf("value %d not zero-initialized", i)
			}
			v.a = uint32(i)
		}

		for i := 0; i < a.Len(); i++ {
			if got := a.Get(Ref(i)).a; got != uint32(i) {
				t.Errorf("ref %d: expected %d, got %d", i, i, got)
			}
		}

		stats := a.Stats()
		if stats.ActiveChunks != 7 {
			t.Errorf("expected 7 chunks, got %d", stats.ActiveChunks)
		}
		if stats.Len != 100 {
			t.Errorf("expected Len=100, got %d", stats.Len)
		}
	})

	t.Run("stale reference panics", func(t *testing.T) {
		a := New[item](16)
		defer a.Free()

		defer func() {
			if recover() == nil {
				t.Error("expected panic for unallocated reference")
			}
		}()
		_ = a.Get(3)
	})

	t.Run("alloc after free", func(t *testing.T) {
		a := New[item](16)
		a.Free()

		if _, _, err := a.Alloc(ctx); !errors.Is(err, ErrFreed) {
			t.Errorf("expected ErrFreed, got %v", err)
		}
	})
}

func TestArena_MemoryAcquirer(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves and releases chunks", func(t *testing.T) {
		acq := &countingAcquirer{}
		a := New[item](16, WithMemoryAcquirer(acq))

		for i := 0; i < 40; i++ {
			if _, _, err := a.Alloc(ctx); err != nil {
				t.Fatalf("allocation %d failed: %v", i, err)
			}
		}

		chunkBytes := a.chunkBytes
		if acq.used != 3*chunkBytes {
			t.Errorf("expected %d bytes reserved, got %d", 3*chunkBytes, acq.used)
		}

		a.Free()
		if acq.used != 0 {
			t.Errorf("expected 0 bytes after free, got %d", acq.used)
		}
	})

	t.Run("refused reservation", func(t *testing.T) {
		acq := &countingAcquirer{limit: 1}
		a := New[item](16, WithMemoryAcquirer(acq))
		defer a.Free()

		_, _, err := a.Alloc(ctx)
		if !errors.Is(err, errNoMemory) {
			t.Fatalf("expected errNoMemory, got %v", err)
		}
		if a.Len() != 0 {
			t.Errorf("expected Len=0, got %d", a.Len())
		}
	})
}
