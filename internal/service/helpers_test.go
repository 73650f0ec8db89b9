package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/srs"
	"github.com/phrazzld/fiszki/internal/platform/logger"
	"github.com/phrazzld/fiszki/internal/platform/memblob"
	"github.com/phrazzld/fiszki/internal/store"
)

const setsBlob = "sets.json"

var (
	fixedNow = time.Date(2025, time.March, 12, 10, 30, 0, 0, time.UTC)
	today    = domain.DateOf(fixedNow)
)

type fixture struct {
	blob  *memblob.Blob
	sets  *SetService
	study *StudyService
	quiz  *QuizService
	dash  *DashboardService
	log   *logger.TestLogBuffer
}

func fixedClock() Clock {
	return func() time.Time { return fixedNow }
}

func newStore(t *testing.T, blob store.Blob) *store.VersionedStore {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	return store.NewVersionedStore(blob, store.Options{MaxRetries: 3, BackoffBase: time.Millisecond}, log)
}

func newSetCollection(vs *store.VersionedStore) *store.Collection[domain.CardSet] {
	return store.NewCollection[domain.CardSet](vs, setsBlob, "sets")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	blob := memblob.New()
	log, buf := logger.GetTestLogger(t)
	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	sets := NewSetService(newSetCollection(newStore(t, blob)), scheduler, fixedClock(), log)
	random := NewRandom(rand.New(rand.NewPCG(1, 2)))
	return &fixture{
		blob:  blob,
		sets:  sets,
		study: NewStudyService(sets, random),
		quiz:  NewQuizService(sets, random, 2),
		dash:  NewDashboardService(sets),
		log:   buf,
	}
}

func inputs(pairs ...string) []domain.CardInput {
	var out []domain.CardInput
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.CardInput{Prompt: pairs[i], Answer: pairs[i+1]})
	}
	return out
}

func (f *fixture) createSet(t *testing.T, owner, name string, pairs ...string) *domain.CardSet {
	t.Helper()
	set, err := f.sets.Create(context.Background(), owner, name, inputs(pairs...))
	require.NoError(t, err)
	return set
}

// seed stores sets directly, bypassing validation.
func (f *fixture) seed(t *testing.T, sets ...domain.CardSet) {
	t.Helper()
	_, err := newSetCollection(newStore(t, f.blob)).Save(context.Background(), sets, store.NoVersion)
	require.NoError(t, err)
}

func boolPtr(b bool) *bool {
	return &b
}

// mockBlob is a store.Blob whose behaviour is scripted per test.
type mockBlob struct {
	mock.Mock
}

func (m *mockBlob) Conditional() bool {
	return true
}

func (m *mockBlob) Read(ctx context.Context, name string) ([]byte, store.Version, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Get(1).(store.Version), args.Error(2)
}

func (m *mockBlob) Write(ctx context.Context, name string, data []byte, expected store.Version) (store.Version, error) {
	args := m.Called(ctx, name, data, expected)
	return args.Get(0).(store.Version), args.Error(1)
}
