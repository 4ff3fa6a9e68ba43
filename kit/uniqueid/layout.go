package uniqueid

import (
	"time"

	"github.com/pkg/errors"
)

const maxTotalBits = 63

// Layout splits the 63 usable bits of an id into time, sequence and machine
// parts, most significant first.
type Layout struct {
	TimeBits     int
	SequenceBits int
	MachineBits  int
	TimeUnit     time.Duration
}

var DefaultLayout = Layout{
	TimeBits:     39,
	SequenceBits: 8,
	MachineBits:  16,
	TimeUnit:     10 * time.Millisecond,
}

func (l Layout) Validate() error {
	if l.TimeBits < 1 || l.SequenceBits < 1 || l.MachineBits < 0 {
		return errors.Wrapf(ErrInvalidLayout, "time bits: %d, sequence bits: %d, machine bits: %d", l.TimeBits, l.SequenceBits, l.MachineBits)
	}
	if total := l.TimeBits + l.SequenceBits + l.MachineBits; total > maxTotalBits {
		return errors.Wrapf(ErrInvalidLayout, "total bits %d exceeds %d", total, maxTotalBits)
	}
	if l.TimeUnit < time.Millisecond {
		return errors.Wrapf(ErrInvalidLayout, "time unit %s is less than 1ms", l.TimeUnit)
	}
	return nil
}

func (l Layout) maxTick() int64 {
	return int64(1)<<l.TimeBits - 1
}

func (l Layout) maxSequence() int64 {
	return int64(1)<<l.SequenceBits - 1
}

func (l Layout) maxMachineID() int64 {
	return int64(1)<<l.MachineBits - 1
}

func (l Layout) compose(tick, sequence, machineID int64) int64 {
	return tick<<(l.SequenceBits+l.MachineBits) | sequence<<l.MachineBits | machineID
}
