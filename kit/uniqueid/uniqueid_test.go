package uniqueid

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeClock struct {
	lock   sync.Mutex
	now    time.Time
	slept  time.Duration
	sleeps int
}

func (c *fakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
	c.slept += d
	c.sleeps++
}

func (c *fakeClock) Add(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func createTestGenerator(t *testing.T, clock *fakeClock, options ...Option) *Generator {
	generator, err := New(append([]Option{
		WithClock(clock),
		WithStartTime(clock.Now().Add(-time.Second)),
		WithMachineID(5),
	}, options...)...)
	require.Nil(t, err)
	return generator
}

func TestLayoutValidate(t *testing.T) {
	for _, testCase := range []struct {
		scenario string
		layout   Layout
		valid    bool
	}{
		{scenario: "default", layout: DefaultLayout, valid: true},
		{scenario: "snowflake", layout: Layout{TimeBits: 41, SequenceBits: 12, MachineBits: 10, TimeUnit: time.Millisecond}, valid: true},
		{scenario: "no machine bits", layout: Layout{TimeBits: 41, SequenceBits: 12, TimeUnit: time.Millisecond}, valid: true},
		{scenario: "over 63 bits", layout: Layout{TimeBits: 41, SequenceBits: 12, MachineBits: 11, TimeUnit: time.Millisecond}, valid: false},
		{scenario: "no sequence bits", layout: Layout{TimeBits: 41, MachineBits: 10, TimeUnit: time.Millisecond}, valid: false},
		{scenario: "no time bits", layout: Layout{SequenceBits: 12, MachineBits: 10, TimeUnit: time.Millisecond}, valid: false},
		{scenario: "sub millisecond unit", layout: Layout{TimeBits: 39, SequenceBits: 8, MachineBits: 16, TimeUnit: time.Microsecond}, valid: false},
	} {
		t.Run(testCase.scenario, func(t *testing.T) {
			err := testCase.layout.Validate()
			if testCase.valid {
				assert.Nil(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLayout)
			}
		})
	}
}

func TestNew(t *testing.T) {
	clock := &fakeClock{now: testNow}

	_, err := New(WithClock(clock), WithStartTime(testNow.Add(time.Hour)), WithMachineID(1))
	assert.ErrorIs(t, err, ErrStartTimeAhead)

	_, err = New(WithClock(clock), WithMachineID(1<<16))
	assert.ErrorIs(t, err, ErrInvalidMachineID)

	_, err = New(WithClock(clock), WithMachineID(-1))
	assert.ErrorIs(t, err, ErrInvalidMachineID)

	_, err = New(WithClock(clock), WithMachineIDFunc(func() (int64, error) {
		return 0, errors.WithStack(ErrNoPrivateAddress)
	}))
	assert.ErrorIs(t, err, ErrNoPrivateAddress)

	_, err = New(WithClock(clock), WithMachineID(1), WithLayout(Layout{TimeBits: 60, SequenceBits: 8, MachineBits: 16, TimeUnit: time.Millisecond}))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	generator, err := New(WithClock(clock), WithMachineIDFunc(func() (int64, error) {
		return 0x1ABCD, nil
	}))
	assert.Nil(t, err)
	assert.Equal(t, int64(0xABCD), generator.MachineID())
}

func TestNextIDBitLayout(t *testing.T) {
	clock := &fakeClock{now: testNow}
	generator := createTestGenerator(t, clock)

	id, err := generator.NextID()
	assert.Nil(t, err)
	assert.Equal(t, int64(100)<<24|int64(5), id)

	parts := generator.Decompose(id)
	assert.Equal(t, int64(100), parts.Tick)
	assert.Equal(t, int64(0), parts.Sequence)
	assert.Equal(t, int64(5), parts.MachineID)
	assert.Equal(t, testNow, parts.Time)

	id, err = generator.NextID()
	assert.Nil(t, err)
	assert.Equal(t, int64(100)<<24|int64(1)<<16|int64(5), id)
}

func TestNextIDSequenceOverflow(t *testing.T) {
	clock := &fakeClock{now: testNow}
	generator := createTestGenerator(t, clock)

	var lastID int64
	for i := 0; i < 256; i++ {
		id, err := generator.NextID()
		assert.Nil(t, err)
		assert.Greater(t, id, lastID)
		lastID = id

		parts := generator.Decompose(id)
		assert.Equal(t, int64(100), parts.Tick)
		assert.Equal(t, int64(i), parts.Sequence)
	}
	assert.Equal(t, 0, clock.sleeps)

	id, err := generator.NextID()
	assert.Nil(t, err)
	assert.Greater(t, id, lastID)

	parts := generator.Decompose(id)
	assert.Equal(t, int64(101), parts.Tick)
	assert.Equal(t, int64(0), parts.Sequence)
	assert.Equal(t, 10*time.Millisecond, clock.slept)
}

func TestNextIDClockBackward(t *testing.T) {
	clock := &fakeClock{now: testNow}
	generator := createTestGenerator(t, clock, WithMaxClockBackward(time.Second))

	firstID, err := generator.NextID()
	assert.Nil(t, err)

	clock.Add(-500 * time.Millisecond)
	secondID, err := generator.NextID()
	assert.Nil(t, err)
	assert.Greater(t, secondID, firstID)
	assert.Equal(t, generator.Decompose(firstID).Tick, generator.Decompose(secondID).Tick)

	clock.Add(-time.Second)
	_, err = generator.NextID()
	assert.ErrorIs(t, err, ErrClockMovedBackwards)

	clock.Add(2 * time.Second)
	thirdID, err := generator.NextID()
	assert.Nil(t, err)
	assert.Greater(t, thirdID, secondID)
}

func TestNextIDOverTimeLimit(t *testing.T) {
	clock := &fakeClock{now: testNow}
	generator, err := New(
		WithClock(clock),
		WithStartTime(testNow.Add(-20*time.Millisecond)),
		WithMachineID(1),
		WithLayout(Layout{TimeBits: 1, SequenceBits: 8, MachineBits: 16, TimeUnit: 10 * time.Millisecond}),
	)
	assert.Nil(t, err)

	_, err = generator.NextID()
	assert.ErrorIs(t, err, ErrOverTimeLimit)
}

func TestNextIDConcurrent(t *testing.T) {
	clock := &fakeClock{now: testNow}
	generator := createTestGenerator(t, clock)

	const (
		workers      = 8
		idsPerWorker = 500
	)
	results := make([][]int64, workers)

	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			ids := make([]int64, 0, idsPerWorker)
			for j := 0; j < idsPerWorker; j++ {
				id, err := generator.NextID()
				if err != nil {
					return err
				}
				if len(ids) > 0 && id <= ids[len(ids)-1] {
					return errors.Errorf("id not increasing, previous: %d, current: %d", ids[len(ids)-1], id)
				}
				ids = append(ids, id)
			}
			results[i] = ids
			return nil
		})
	}
	assert.Nil(t, eg.Wait())

	seen := make(map[int64]struct{}, workers*idsPerWorker)
	for _, ids := range results {
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	assert.Len(t, seen, workers*idsPerWorker)
}

func TestNextIDSystemClock(t *testing.T) {
	generator, err := New(WithMachineID(1))
	assert.Nil(t, err)

	var lastID int64
	for i := 0; i < 1000; i++ {
		id, err := generator.NextID()
		assert.Nil(t, err)
		assert.Greater(t, id, lastID)
		lastID = id
	}
	assert.WithinDuration(t, time.Now(), generator.Decompose(lastID).Time, time.Second)
}

func TestFirstPrivateIPv4(t *testing.T) {
	mustParseCIDR := func(cidr string) net.Addr {
		ip, ipNet, err := net.ParseCIDR(cidr)
		require.Nil(t, err)
		ipNet.IP = ip
		return ipNet
	}

	ip, err := firstPrivateIPv4([]net.Addr{
		mustParseCIDR("127.0.0.1/8"),
		mustParseCIDR("8.8.8.8/32"),
		mustParseCIDR("192.168.1.20/24"),
		mustParseCIDR("10.0.0.3/8"),
	})
	assert.Nil(t, err)
	assert.Equal(t, "192.168.1.20", ip.String())

	_, err = firstPrivateIPv4([]net.Addr{
		mustParseCIDR("127.0.0.1/8"),
		mustParseCIDR("8.8.8.8/32"),
	})
	assert.ErrorIs(t, err, ErrNoPrivateAddress)
}
