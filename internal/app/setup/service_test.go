package setup

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"doko/internal/domain"
)

type fakeRosterPort struct {
	players []string
	saveErr error
	saves   int
}

func (f *fakeRosterPort) Load(ctx context.Context) ([]string, error) {
	return f.players, nil
}

func (f *fakeRosterPort) Save(ctx context.Context, players []string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.players = players
	f.saves++
	return nil
}

func TestRegisterRoster(t *testing.T) {
	roster := &fakeRosterPort{}
	service := NewService(roster, rand.New(rand.NewSource(1)))

	names := []string{"Anna", "Ben", "Clara", "David"}
	if err := service.RegisterRoster(context.Background(), names); err != nil {
		t.Fatalf("register: %v", err)
	}
	if roster.saves != 1 || len(roster.players) != 4 {
		t.Fatalf("roster not saved: saves=%d players=%v", roster.saves, roster.players)
	}
}

func TestRegisterRosterRejectsInvalid(t *testing.T) {
	roster := &fakeRosterPort{}
	service := NewService(roster, rand.New(rand.NewSource(1)))

	err := service.RegisterRoster(context.Background(), []string{"Anna", "Ben", "Clara"})
	if !errors.Is(err, domain.ErrInvalidRoster) {
		t.Fatalf("err = %v, want ErrInvalidRoster", err)
	}
	if roster.saves != 0 {
		t.Fatal("invalid roster must not be saved")
	}
}

func TestResetRoster(t *testing.T) {
	roster := &fakeRosterPort{players: []string{"Anna", "Ben", "Clara", "David"}}
	service := NewService(roster, rand.New(rand.NewSource(1)))

	if err := service.ResetRoster(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(roster.players) != 0 {
		t.Fatalf("roster = %v, want empty", roster.players)
	}
}

func TestShuffleSeatsKeepsAllPlayers(t *testing.T) {
	players := []string{"Anna", "Ben", "Clara", "David", "Emil"}
	roster := &fakeRosterPort{players: players}
	service := NewService(roster, rand.New(rand.NewSource(7)))

	shuffled, err := service.ShuffleSeats(context.Background())
	if err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	if len(shuffled) != len(players) {
		t.Fatalf("shuffled %d players, want %d", len(shuffled), len(players))
	}
	seen := make(map[string]bool)
	for _, p := range shuffled {
		seen[p] = true
	}
	for _, p := range players {
		if !seen[p] {
			t.Errorf("player %s missing after shuffle", p)
		}
	}

	// The stored roster order stays untouched; only the dealt seating changes.
	if roster.players[0] != "Anna" {
		t.Fatal("shuffle must not mutate the stored roster")
	}
}

func TestShuffleSeatsWithoutRoster(t *testing.T) {
	service := NewService(&fakeRosterPort{}, rand.New(rand.NewSource(1)))

	_, err := service.ShuffleSeats(context.Background())
	if !errors.Is(err, ErrNoRoster) {
		t.Fatalf("err = %v, want ErrNoRoster", err)
	}
}
