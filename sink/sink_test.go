package sink_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/sink"
)

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "queued", sink.Queued.String())
	assert.Equal(t, "ready", sink.Ready.String())
	assert.Equal(t, "delivered", sink.Delivered.String())
	assert.Equal(t, "unknown", sink.EventType(9).String())
}

func TestConsole_Lines(t *testing.T) {
	var buf bytes.Buffer
	c := sink.NewConsole(&buf)

	it := item.Item{Seq: 1, Kind: item.Sushi}
	c.Emit(sink.Event{Type: sink.Queued, Item: it})
	c.Emit(sink.Event{Type: sink.Ready, Item: it})
	c.Emit(sink.Event{Type: sink.Delivered, Item: it, Batch: 1})

	expected := "The waiter placed an order for -> sushi\n" +
		"The kitchen has prepared -> sushi\n" +
		"The courier took -> sushi\n"
	assert.Equal(t, expected, buf.String())
}

func TestConsole_ConcurrentLinesAreWhole(t *testing.T) {
	var buf bytes.Buffer
	c := sink.NewConsole(&buf)

	const perWriter = 200
	var wg sync.WaitGroup
	for _, tp := range []sink.EventType{sink.Queued, sink.Ready, sink.Delivered} {
		wg.Add(1)
		go func(tp sink.EventType) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				c.Emit(sink.Event{Type: tp, Item: item.Item{Kind: item.Steak}})
			}
		}(tp)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3*perWriter)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, "-> steak"), "garbled line %q", line)
	}
}

func TestLog_Emit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	l := sink.NewLog(logger)

	l.Emit(sink.Event{Type: sink.Delivered, Item: item.Item{Seq: 4, Kind: item.Pizza}, Batch: 2})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "item delivered", rec["msg"])
	assert.Equal(t, "pizza", rec["kind"])
	assert.EqualValues(t, 4, rec["seq"])
	assert.EqualValues(t, 2, rec["batch"])

	(&sink.Log{}).Emit(sink.Event{})
}

func TestRecorderAndMulti(t *testing.T) {
	var a, b sink.Recorder
	var calls int
	s := sink.Multi(&a, nil, &b, sink.Func(func(sink.Event) { calls++ }), sink.Discard{})

	s.Emit(sink.Event{Type: sink.Queued, Item: item.Item{Seq: 1}})
	s.Emit(sink.Event{Type: sink.Queued, Item: item.Item{Seq: 2}})
	s.Emit(sink.Event{Type: sink.Ready, Item: item.Item{Seq: 1}})

	for _, r := range []*sink.Recorder{&a, &b} {
		assert.Len(t, r.Events(), 3)
		assert.Equal(t, 2, r.Count(sink.Queued))
		assert.Equal(t, 1, r.Count(sink.Ready))
		assert.Equal(t, 0, r.Count(sink.Delivered))

		queued := r.Items(sink.Queued)
		require.Len(t, queued, 2)
		assert.Equal(t, uint64(1), queued[0].Seq)
		assert.Equal(t, uint64(2), queued[1].Seq)
	}
	assert.Equal(t, 3, calls)
}
