package sample

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferPushBelowCapacity(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 5; i++ {
		b.Push(Sample{Timestamp: float64(i), Value: int64(i)})
	}

	assert.Equal(t, 5, b.Len())
	snap := b.Snapshot(0)
	require.Len(t, snap, 5)
	for i, s := range snap {
		assert.Equal(t, int64(i), s.Value)
	}
}

func TestBufferFIFOEviction(t *testing.T) {
	// Pushing N+k samples into capacity N leaves exactly the last N,
	// in arrival order.
	tests := []struct {
		name     string
		capacity int
		pushes   int
	}{
		{"exact capacity", 16, 16},
		{"one over", 16, 17},
		{"many over", 16, 100},
		{"capacity one", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.capacity)
			for i := 0; i < tt.pushes; i++ {
				b.Push(Sample{Timestamp: float64(i), Value: int64(i)})
			}

			assert.Equal(t, tt.capacity, b.Len())
			snap := b.Snapshot(0)
			require.Len(t, snap, tt.capacity)

			first := int64(tt.pushes - tt.capacity)
			for i, s := range snap {
				assert.Equal(t, first+int64(i), s.Value, "index %d", i)
			}

			assert.Equal(t, uint64(tt.pushes-tt.capacity), b.Evicted())
		})
	}
}

func TestBufferSnapshotMostRecent(t *testing.T) {
	b := NewBuffer(10)
	for i := 0; i < 10; i++ {
		b.Push(Sample{Value: int64(i)})
	}

	snap := b.Snapshot(3)
	require.Len(t, snap, 3)
	assert.Equal(t, []int64{7, 8, 9}, []int64{snap[0].Value, snap[1].Value, snap[2].Value})

	// Asking for more than stored returns everything.
	assert.Len(t, b.Snapshot(100), 10)
}

func TestBufferSnapshotIsCopy(t *testing.T) {
	b := NewBuffer(4)
	b.Push(Sample{Value: 1})
	snap := b.Snapshot(0)

	// Later pushes must not show through an earlier snapshot.
	b.Push(Sample{Value: 2})
	b.Push(Sample{Value: 3})

	require.Len(t, snap, 1)
	assert.Equal(t, int64(1), snap[0].Value)
}

func TestBufferConcurrentPushSnapshot(t *testing.T) {
	b := NewBuffer(128)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			b.Push(Sample{Timestamp: float64(i), Value: int64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := b.Snapshot(0)
			// Snapshots are internally consistent: values ascend by one.
			for j := 1; j < len(snap); j++ {
				if snap[j].Value != snap[j-1].Value+1 {
					t.Errorf("snapshot out of order at %d: %d then %d",
						j, snap[j-1].Value, snap[j].Value)
					return
				}
			}
		}
	}()

	wg.Wait()
}
