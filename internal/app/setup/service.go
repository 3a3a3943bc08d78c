package setup

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"doko/internal/domain"
	"doko/internal/ports"
)

// ErrNoRoster is returned when an operation needs a registered roster and
// none exists yet.
var ErrNoRoster = errors.New("no roster registered")

// Service handles table setup: roster registration and seating.
type Service struct {
	roster ports.RosterPort
	rng    *rand.Rand
}

// NewService constructs a setup service. rng may be nil to use a time-seeded
// default.
func NewService(roster ports.RosterPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{roster: roster, rng: rng}
}

// RegisterRoster validates and persists the ordered player list. The roster
// stays fixed for the session; re-registering replaces it.
func (s *Service) RegisterRoster(ctx context.Context, names []string) error {
	if err := domain.ValidateRoster(names); err != nil {
		return err
	}
	if err := s.roster.Save(ctx, names); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

// ResetRoster clears the registration. Recorded rounds are untouched.
func (s *Service) ResetRoster(ctx context.Context) error {
	if err := s.roster.Save(ctx, nil); err != nil {
		return fmt.Errorf("reset roster: %w", err)
	}
	return nil
}

// ShuffleSeats returns a fresh random seating order for the registered
// players. The first seat deals.
func (s *Service) ShuffleSeats(ctx context.Context) ([]string, error) {
	players, err := s.roster.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(players) == 0 {
		return nil, ErrNoRoster
	}
	shuffled := append([]string(nil), players...)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, nil
}
