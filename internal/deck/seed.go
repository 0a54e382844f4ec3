package deck

import (
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"
)

// Seeder hands out an independent random source for every draw.
type Seeder interface {
	Rand() *rand.Rand
}

// clockSeeder mixes wall-clock nanoseconds, the process id and a counter so
// that two draws in the same instant still get different sequences.
type clockSeeder struct {
	pid     uint64
	counter atomic.Uint64
	now     func() time.Time
}

// NewClockSeeder returns the production seeder.
func NewClockSeeder() Seeder {
	return &clockSeeder{pid: uint64(os.Getpid()), now: time.Now}
}

func (s *clockSeeder) Rand() *rand.Rand {
	n := s.counter.Add(1)
	hi := uint64(s.now().UnixNano()) ^ (s.pid << 32)
	return rand.New(rand.NewPCG(hi, n))
}

// fixedSeeder produces the same sequence of sources for the same seed.
type fixedSeeder struct {
	seed    uint64
	counter atomic.Uint64
}

// NewFixedSeeder returns a deterministic seeder for tests and replays.
func NewFixedSeeder(seed uint64) Seeder {
	return &fixedSeeder{seed: seed}
}

func (s *fixedSeeder) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(s.seed, s.counter.Add(1)))
}
