package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestProbeAllRecordsStatuses(t *testing.T) {
	m := New(time.Minute)
	m.Register("up", &fakePinger{})
	m.Register("down", &fakePinger{err: errors.New("connection refused")})

	m.probeAll()

	statuses := m.Statuses()
	require.Len(t, statuses, 2)

	require.True(t, statuses["up"].Healthy)
	require.Empty(t, statuses["up"].Detail)
	require.False(t, statuses["up"].CheckedAt.IsZero())

	require.False(t, statuses["down"].Healthy)
	require.Contains(t, statuses["down"].Detail, "connection refused")
}

func TestStatusesReturnsACopy(t *testing.T) {
	m := New(time.Minute)
	m.Register("up", &fakePinger{})
	m.probeAll()

	statuses := m.Statuses()
	statuses["up"] = Status{Healthy: false}

	require.True(t, m.Statuses()["up"].Healthy)
}

func TestNewClampsInterval(t *testing.T) {
	m := New(time.Second)
	require.Equal(t, time.Minute, m.interval)
}
