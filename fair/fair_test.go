package fair_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairbet/fair"
)

func TestOutcomeKnownTriples(t *testing.T) {
	// Literals recomputed independently from the HMAC-SHA256 derivation.
	tests := []struct {
		name       string
		serverSeed string
		clientSeed string
		nonce      uint64
		points     uint32
		outcome    float64
	}{
		{"short seeds nonce 1", "abc123", "xyz", 1, 3243, 32.43},
		{"short seeds nonce 2", "abc123", "xyz", 2, 6243, 62.43},
		{"full seed nonce 1", "d2ac2a9a4bc288bbb1b52454e67d9eb8a637dedcda431aae4bc7c6bea9a1f1a2", "lucky", 1, 2027, 20.27},
		{"full seed nonce 2", "d2ac2a9a4bc288bbb1b52454e67d9eb8a637dedcda431aae4bc7c6bea9a1f1a2", "lucky", 2, 451, 4.51},
		{"full seed nonce 3", "d2ac2a9a4bc288bbb1b52454e67d9eb8a637dedcda431aae4bc7c6bea9a1f1a2", "lucky", 3, 4953, 49.53},
		{"plain words", "server-seed", "client-seed", 7, 9234, 92.34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.points, fair.OutcomePoints(tt.serverSeed, tt.clientSeed, tt.nonce))
			assert.Equal(t, tt.outcome, fair.Outcome(tt.serverSeed, tt.clientSeed, tt.nonce))
		})
	}
}

func TestOutcomeDeterministic(t *testing.T) {
	first := fair.Outcome("abc123", "xyz", 1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, fair.Outcome("abc123", "xyz", 1))
	}
}

func TestOutcomeRange(t *testing.T) {
	for nonce := uint64(1); nonce <= 1000; nonce++ {
		points := fair.OutcomePoints("range-server", "range-client", nonce)
		assert.Less(t, points, uint32(fair.Outcomes))

		outcome := fair.Outcome("range-server", "range-client", nonce)
		assert.GreaterOrEqual(t, outcome, 0.0)
		assert.LessOrEqual(t, outcome, 99.99)
		// Exactly 2 decimal digits of resolution.
		assert.Equal(t, float64(points)/100, outcome)
	}
}

func TestHashSeedCommitment(t *testing.T) {
	assert.Equal(t,
		"6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090",
		fair.HashSeed("abc123"))

	seed := fair.NewServerSeed()
	assert.Equal(t, fair.HashSeed(seed), fair.HashSeed(seed))
	assert.NotEqual(t, fair.HashSeed(seed), fair.HashSeed(seed+"x"))
}

func TestSeedGeneration(t *testing.T) {
	server := fair.NewServerSeed()
	client := fair.NewClientSeed()

	require.Len(t, server, 64)
	require.Len(t, client, 32)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := fair.NewServerSeed()
		assert.False(t, seen[s], "server seeds must not repeat")
		seen[s] = true
	}
}
