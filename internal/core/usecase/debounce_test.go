package usecase

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDebouncer_CoalescesBurst(t *testing.T) {
	d := NewFetchDebouncer(40 * time.Millisecond)
	defer d.Stop()

	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load(), "only the last trigger runs")
	assert.False(t, d.Pending())
}

func TestFetchDebouncer_Cancel(t *testing.T) {
	d := NewFetchDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	time.Sleep(70 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestFetchDebouncer_Flush(t *testing.T) {
	d := NewFetchDebouncer(time.Hour)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Flush())
}

func TestFetchDebouncer_ZeroWindowRunsImmediately(t *testing.T) {
	d := NewFetchDebouncer(0)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchDebouncer_StopDropsPending(t *testing.T) {
	d := NewFetchDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
