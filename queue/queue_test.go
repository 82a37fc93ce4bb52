package queue_test

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/orderflow/queue"
)

func TestQueue_PushPop(t *testing.T) {
	q := queue.New[int]()
	assert.True(t, q.IsEmpty())

	for i := 1; i <= 100; i++ {
		q.Push(i)
	}
	assert.Equal(t, 100, q.Len())

	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, head)
	assert.Equal(t, 100, q.Len(), "Peek must not remove the head")

	for i := 1; i <= 100; i++ {
		v, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.IsEmpty())
}

func TestQueue_EmptyAccess(t *testing.T) {
	q := queue.New[string]()

	_, err := q.Pop()
	assert.ErrorIs(t, err, queue.ErrEmpty)

	_, err = q.Peek()
	assert.ErrorIs(t, err, queue.ErrEmpty)

	q.Push("x")
	_, err = q.Pop()
	require.NoError(t, err)

	_, err = q.Pop()
	assert.ErrorIs(t, err, queue.ErrEmpty)
}

func TestQueue_InterleavedKeepsOrder(t *testing.T) {
	q := queue.New[int]()
	next := 0
	want := 0

	// Alternate bursts of pushes and pops so the internal buffer is
	// compacted several times.
	for round := 0; round < 50; round++ {
		for i := 0; i < 40; i++ {
			q.Push(next)
			next++
		}
		for i := 0; i < 30; i++ {
			v, err := q.Pop()
			require.NoError(t, err)
			require.Equal(t, want, v)
			want++
		}
	}
	for !q.IsEmpty() {
		v, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, want, v)
		want++
	}
	assert.Equal(t, next, want)
}

func TestQueue_WaitPopBlocksUntilPush(t *testing.T) {
	q := queue.New[int]()
	got := make(chan int, 1)

	go func() {
		v, ok := q.WaitPop()
		if ok {
			got <- v
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("WaitPop returned before any push")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(7)

	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("WaitPop did not wake after push")
	}
}

func TestQueue_WaitPopSeesEarlierPush(t *testing.T) {
	q := queue.New[int]()
	q.Push(1)

	v, ok := q.WaitPop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestQueue_Close(t *testing.T) {
	t.Run("wakes blocked waiters", func(t *testing.T) {
		q := queue.New[int]()
		const waiters = 4

		var wg sync.WaitGroup
		results := make(chan bool, waiters*2)
		for i := 0; i < waiters; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, ok := q.WaitPop()
				results <- ok
			}()
			go func() {
				defer wg.Done()
				_, ok := q.WaitDrain(nil)
				results <- ok
			}()
		}

		time.Sleep(10 * time.Millisecond)
		q.Close()

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("waiters were not released by Close")
		}

		close(results)
		for ok := range results {
			assert.False(t, ok)
		}
		assert.True(t, q.Closed())
	})

	t.Run("remaining items are still returned", func(t *testing.T) {
		q := queue.New[int]()
		q.Push(1)
		q.Close()
		q.Close()
		q.Push(2)

		v, ok := q.WaitPop()
		assert.True(t, ok)
		assert.Equal(t, 1, v)

		var drained []int
		n, ok := q.WaitDrain(func(v int) { drained = append(drained, v) })
		assert.True(t, ok)
		assert.Equal(t, 1, n)
		assert.Equal(t, []int{2}, drained)

		_, ok = q.WaitPop()
		assert.False(t, ok)
	})
}

func TestQueue_WaitDrain(t *testing.T) {
	q := queue.New[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}

	var drained []int
	n, ok := q.WaitDrain(func(v int) { drained = append(drained, v) })

	assert.True(t, ok)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, drained)
	assert.True(t, q.IsEmpty())
}

// TestQueue_HandoffStress moves a fixed budget of items through two queues
// with randomized delays on both sides and checks that every item arrives
// exactly once and in order.
func TestQueue_HandoffStress(t *testing.T) {
	const total = 2000

	intake := queue.New[int]()
	ready := queue.New[int]()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < total; i++ {
			if rng.IntN(4) == 0 {
				time.Sleep(time.Duration(rng.IntN(50)) * time.Microsecond)
			}
			intake.Push(i)
		}
	}()

	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewPCG(3, 4))
		for i := 0; i < total; i++ {
			v, ok := intake.WaitPop()
			if !ok {
				t.Error("intake closed unexpectedly")
				return
			}
			if rng.IntN(4) == 0 {
				time.Sleep(time.Duration(rng.IntN(50)) * time.Microsecond)
			}
			ready.Push(v)
		}
	}()

	var delivered []int
	var batches int
	go func() {
		defer wg.Done()
		for len(delivered) < total {
			n, ok := ready.WaitDrain(func(v int) { delivered = append(delivered, v) })
			if !ok {
				t.Error("ready closed unexpectedly")
				return
			}
			if n == 0 {
				t.Error("WaitDrain reported an empty batch")
			}
			batches++
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("handoff did not finish")
	}

	require.Len(t, delivered, total)
	for i, v := range delivered {
		require.Equal(t, i, v, "item out of order at position %d", i)
	}
	assert.GreaterOrEqual(t, batches, 1)
	assert.True(t, intake.IsEmpty())
	assert.True(t, ready.IsEmpty())
}
