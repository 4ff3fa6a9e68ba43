package uniqueid

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidLayout       = errors.New("invalid id layout")
	ErrInvalidMachineID    = errors.New("invalid machine id")
	ErrStartTimeAhead      = errors.New("start time is ahead of now")
	ErrNoPrivateAddress    = errors.New("no private ip address")
	ErrClockMovedBackwards = errors.New("clock moved backwards")
	ErrOverTimeLimit       = errors.New("over the time limit")
)

var DefaultStartTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

const DefaultMaxClockBackward = time.Second

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

type Generator struct {
	layout           Layout
	startTime        time.Time
	machineID        int64
	maxClockBackward time.Duration
	clock            Clock

	// elapsed time is startOffset plus the clock reading since constructedAt,
	// so a real clock is measured on its monotonic reading.
	constructedAt time.Time
	startOffset   time.Duration

	lock     sync.Mutex
	lastTick int64
	sequence int64
}

type Parts struct {
	Tick      int64
	Sequence  int64
	MachineID int64
	Time      time.Time
}

type generatorConfig struct {
	layout           Layout
	startTime        time.Time
	machineID        *int64
	machineIDFunc    func() (int64, error)
	maxClockBackward time.Duration
	clock            Clock
}

type Option func(*generatorConfig)

func WithLayout(layout Layout) Option {
	return func(config *generatorConfig) {
		config.layout = layout
	}
}

func WithStartTime(startTime time.Time) Option {
	return func(config *generatorConfig) {
		config.startTime = startTime
	}
}

func WithMachineID(machineID int64) Option {
	return func(config *generatorConfig) {
		config.machineID = &machineID
	}
}

// WithMachineIDFunc replaces the private IPv4 lookup. The returned value is
// masked to the layout's machine bits.
func WithMachineIDFunc(machineIDFunc func() (int64, error)) Option {
	return func(config *generatorConfig) {
		config.machineIDFunc = machineIDFunc
	}
}

func WithMaxClockBackward(maxClockBackward time.Duration) Option {
	return func(config *generatorConfig) {
		config.maxClockBackward = maxClockBackward
	}
}

func WithClock(clock Clock) Option {
	return func(config *generatorConfig) {
		config.clock = clock
	}
}

func New(options ...Option) (*Generator, error) {
	config := generatorConfig{
		layout:           DefaultLayout,
		startTime:        DefaultStartTime,
		machineIDFunc:    PrivateIPv4MachineID,
		maxClockBackward: DefaultMaxClockBackward,
		clock:            systemClock{},
	}
	for _, option := range options {
		option(&config)
	}

	if err := config.layout.Validate(); err != nil {
		return nil, err
	}
	if config.maxClockBackward < 0 {
		return nil, errors.New("max clock backward must not be negative")
	}

	now := config.clock.Now()
	if config.startTime.After(now) {
		return nil, errors.Wrapf(ErrStartTimeAhead, "start time: %s, now: %s", config.startTime, now)
	}

	var machineID int64
	if config.machineID != nil {
		machineID = *config.machineID
		if machineID < 0 || machineID > config.layout.maxMachineID() {
			return nil, errors.Wrapf(ErrInvalidMachineID, "machine id %d not in [0, %d]", machineID, config.layout.maxMachineID())
		}
	} else {
		derivedMachineID, err := config.machineIDFunc()
		if err != nil {
			return nil, errors.Wrap(err, "get machine id failed")
		}
		machineID = derivedMachineID & config.layout.maxMachineID()
	}

	return &Generator{
		layout:           config.layout,
		startTime:        config.startTime,
		machineID:        machineID,
		maxClockBackward: config.maxClockBackward,
		clock:            config.clock,
		constructedAt:    now,
		startOffset:      now.Sub(config.startTime),
		lastTick:         -1,
	}, nil
}

func (g *Generator) MachineID() int64 {
	return g.machineID
}

func (g *Generator) NextID() (int64, error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	currentTick := g.currentTick()

	if currentTick > g.lastTick {
		g.lastTick = currentTick
		g.sequence = 0
	} else {
		if behind := time.Duration(g.lastTick-currentTick) * g.layout.TimeUnit; behind > g.maxClockBackward {
			return 0, errors.Wrapf(ErrClockMovedBackwards, "behind last id by %s", behind)
		}
		g.sequence = (g.sequence + 1) & g.layout.maxSequence()
		if g.sequence == 0 {
			g.lastTick++
			g.waitUntilTick(g.lastTick)
		}
	}

	if g.lastTick > g.layout.maxTick() {
		return 0, errors.Wrapf(ErrOverTimeLimit, "tick %d exceeds %d", g.lastTick, g.layout.maxTick())
	}

	return g.layout.compose(g.lastTick, g.sequence, g.machineID), nil
}

func (g *Generator) Decompose(id int64) Parts {
	tick := id >> (g.layout.SequenceBits + g.layout.MachineBits)
	return Parts{
		Tick:      tick,
		Sequence:  (id >> g.layout.MachineBits) & g.layout.maxSequence(),
		MachineID: id & g.layout.maxMachineID(),
		Time:      g.startTime.Add(time.Duration(tick) * g.layout.TimeUnit),
	}
}

func (g *Generator) elapsed() time.Duration {
	return g.startOffset + g.clock.Now().Sub(g.constructedAt)
}

func (g *Generator) currentTick() int64 {
	return int64(g.elapsed() / g.layout.TimeUnit)
}

func (g *Generator) waitUntilTick(tick int64) {
	for {
		remaining := time.Duration(tick)*g.layout.TimeUnit - g.elapsed()
		if remaining <= 0 {
			return
		}
		g.clock.Sleep(remaining)
	}
}
