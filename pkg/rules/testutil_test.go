package rules

import (
	"math/rand"
	"os"

	"github.com/decred/slog"
)

// testLogger builds a quiet logger shared by every test in this package.
func testLogger() slog.Logger {
	backend := slog.NewBackend(os.Stderr)
	log := backend.Logger("rules_test")
	log.SetLevel(slog.LevelError)
	return log
}

// seededRNG returns a deterministic RNG for reproducible test scenarios.
func seededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
