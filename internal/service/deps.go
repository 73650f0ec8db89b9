package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/store"
)

// Collection is the persistence contract services need: a snapshot read and
// a load, mutate, conditional save update. store.Collection implements it.
type Collection[T any] interface {
	Load(ctx context.Context) ([]T, store.Version, error)
	Update(ctx context.Context, fn func(items []T) ([]T, error)) ([]T, store.Version, error)
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) today() domain.Date {
	return domain.DateOf(c())
}

// Random is a goroutine-safe wrapper around a seeded *rand.Rand.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom wraps rng. A nil rng is seeded from the runtime source.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Random{rng: rng}
}

// With runs fn while holding exclusive use of the generator.
func (r *Random) With(fn func(rng *rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rng)
}
