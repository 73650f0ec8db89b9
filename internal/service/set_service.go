package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/domain/srs"
	"github.com/phrazzld/fiszki/internal/platform/logger"
)

// SetService manages card sets owned by users.
type SetService struct {
	sets      Collection[domain.CardSet]
	scheduler srs.Service
	now       Clock
	logger    *slog.Logger
}

// NewSetService creates a SetService.
func NewSetService(
	sets Collection[domain.CardSet],
	scheduler srs.Service,
	now Clock,
	log *slog.Logger,
) *SetService {
	if log == nil {
		log = slog.Default()
	}
	return &SetService{
		sets:      sets,
		scheduler: scheduler,
		now:       now,
		logger:    log.With(slog.String("component", "set_service")),
	}
}

// Create validates and stores a new set with fresh statistics.
func (s *SetService) Create(
	ctx context.Context,
	owner, name string,
	cards []domain.CardInput,
) (*domain.CardSet, error) {
	log := s.log(ctx)

	set, err := domain.NewCardSet(owner, name, cards, s.now())
	if err != nil {
		log.Debug("rejected set", slog.String("owner", owner), slog.String("error", err.Error()))
		return nil, err
	}

	_, _, err = s.sets.Update(ctx, func(sets []domain.CardSet) ([]domain.CardSet, error) {
		return append(sets, *set), nil
	})
	if err != nil {
		return nil, s.fail(log, "create set", err)
	}

	log.Info("card set created",
		slog.String("set_id", set.ID),
		slog.String("owner", owner),
		slog.Int("cards", len(set.Cards)))
	return set, nil
}

// List returns the sets owned by owner with their schedule normalized for today.
func (s *SetService) List(ctx context.Context, owner string) ([]domain.CardSet, error) {
	all, _, err := s.sets.Load(ctx)
	if err != nil {
		return nil, s.fail(s.log(ctx), "list sets", err)
	}

	today := s.now.today()
	var owned []domain.CardSet
	for i := range all {
		if all[i].OwnedBy(owner) {
			s.scheduler.NormalizeSchedule(&all[i], today)
			owned = append(owned, all[i])
		}
	}
	return owned, nil
}

// Get returns one set owned by owner with its schedule normalized for today.
func (s *SetService) Get(ctx context.Context, owner, id string) (*domain.CardSet, error) {
	all, _, err := s.sets.Load(ctx)
	if err != nil {
		return nil, s.fail(s.log(ctx), "get set", err)
	}
	i, err := ownedSet(all, owner, id)
	if err != nil {
		return nil, err
	}
	set := all[i]
	s.scheduler.NormalizeSchedule(&set, s.now.today())
	return &set, nil
}

// Update renames the set and replaces its cards. A card keeps its statistics
// when the card at the same position had the same prompt.
func (s *SetService) Update(
	ctx context.Context,
	owner, id, name string,
	cards []domain.CardInput,
) (*domain.CardSet, error) {
	return s.mutate(ctx, "update set", owner, id, func(set *domain.CardSet) error {
		updated := *set
		updated.Name = name
		updated.Cards = domain.BuildCards(cards, set.Cards)
		if err := updated.Validate(); err != nil {
			return err
		}
		*set = updated
		set.Normalize()
		return nil
	})
}

// Delete removes the set and its cards.
func (s *SetService) Delete(ctx context.Context, owner, id string) error {
	log := s.log(ctx)
	_, _, err := s.sets.Update(ctx, func(sets []domain.CardSet) ([]domain.CardSet, error) {
		i, err := ownedSet(sets, owner, id)
		if err != nil {
			return nil, err
		}
		return slices.Delete(sets, i, i+1), nil
	})
	if err != nil {
		return s.fail(log, "delete set", err)
	}
	log.Info("card set deleted", slog.String("set_id", id), slog.String("owner", owner))
	return nil
}

// mutate applies fn to the owner's set inside a collection update and returns
// the committed set. fn may run more than once when writers race; it always
// sees freshly loaded data.
func (s *SetService) mutate(
	ctx context.Context,
	op, owner, id string,
	fn func(set *domain.CardSet) error,
) (*domain.CardSet, error) {
	var result domain.CardSet
	_, _, err := s.sets.Update(ctx, func(sets []domain.CardSet) ([]domain.CardSet, error) {
		i, err := ownedSet(sets, owner, id)
		if err != nil {
			return nil, err
		}
		if err := fn(&sets[i]); err != nil {
			return nil, err
		}
		result = sets[i]
		return sets, nil
	})
	if err != nil {
		return nil, s.fail(s.log(ctx), op, err)
	}
	return &result, nil
}

func (s *SetService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *SetService) fail(log *slog.Logger, op string, err error) error {
	if isExpected(err) {
		return err
	}
	log.Error("set operation failed", slog.String("operation", op), slog.String("error", err.Error()))
	return NewServiceError(op, "storage operation failed", err)
}

// ownedSet finds the set with id and checks that owner owns it.
func ownedSet(sets []domain.CardSet, owner, id string) (int, error) {
	i := slices.IndexFunc(sets, func(s domain.CardSet) bool { return s.ID == id })
	if i < 0 {
		return -1, domain.ErrSetNotFound
	}
	if !sets[i].OwnedBy(owner) {
		return -1, domain.ErrNotOwner
	}
	return i, nil
}
