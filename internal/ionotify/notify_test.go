package ionotify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (s *spyWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *spyWriter) Close() error {
	s.closed = true
	return nil
}

func event() Event {
	return Event{
		RunID:    "run",
		FileID:   "file-1",
		Tier:     "daily",
		Path:     "daily/year=2024/month=01.parquet",
		Rows:     31,
		Regions:  []string{"rostov"},
		Columns:  []string{"region", "day", "tp_sum"},
		LoadedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage(event())
	require.NoError(t, err)

	assert.Equal(t, []byte("file-1"), msg.Key)
	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event(), got)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "tier", msg.Headers[0].Key)
	assert.Equal(t, []byte("daily"), msg.Headers[0].Value)
	assert.Equal(t, []byte("2024-02-01T10:00:00Z"), msg.Headers[1].Value)
}

func TestKafkaNotify(t *testing.T) {
	spy := &spyWriter{}
	k := NewKafka(spy, "agrimart.loads")
	require.NoError(t, k.Notify(context.Background(), event()))
	assert.Len(t, spy.msgs, 1)
	require.NoError(t, k.Close())
	assert.True(t, spy.closed)

	spy.err = errors.New("broker down")
	err := k.Notify(context.Background(), event())
	assert.True(t, errcode.Is(err, errcode.NotifyError))
}

func TestNew(t *testing.T) {
	n := New(config.NotifyConfig{Topic: "t"})
	assert.IsType(t, Noop{}, n)
	assert.NoError(t, n.Notify(context.Background(), event()))

	n = New(config.NotifyConfig{Brokers: []string{"localhost:9092"}, Topic: "t"})
	assert.IsType(t, &Kafka{}, n)
	assert.NoError(t, n.Close())
}
