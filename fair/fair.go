package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Outcomes is the number of discrete results the derivation can produce.
// Results have exactly 2 decimal digits, so win chances finer than 0.01%
// are not representable.
const Outcomes = 10000

const (
	serverSeedBytes = 32
	clientSeedBytes = 16
	digestPrefixLen = 8
)

// OutcomePoints derives the raw outcome in hundredths (0..9999) from a
// seed triple: HMAC-SHA256 keyed by the server seed over
// "clientSeed-nonce", first 8 hex chars parsed as uint32, mod 10000.
func OutcomePoints(serverSeed, clientSeed string, nonce uint64) uint32 {
	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(clientSeed + "-" + strconv.FormatUint(nonce, 10)))
	digest := hex.EncodeToString(h.Sum(nil))

	prefix, _ := strconv.ParseUint(digest[:digestPrefixLen], 16, 64)

	return uint32(prefix % Outcomes)
}

// Outcome returns the game result in [0.00, 99.99]. Deterministic: the
// same triple always yields the same value, which is what makes stored
// bets independently verifiable.
func Outcome(serverSeed, clientSeed string, nonce uint64) float64 {
	return float64(OutcomePoints(serverSeed, clientSeed, nonce)) / 100
}

// NewServerSeed returns a fresh 64-hex-char secret. Each bet gets its own
// seed, revealed in the settlement response once the bet is committed.
func NewServerSeed() string {
	return randomHex(serverSeedBytes)
}

// NewClientSeed is used when the caller does not supply their own seed.
func NewClientSeed() string {
	return randomHex(clientSeedBytes)
}

// HashSeed is the public commitment for a server seed.
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("fair: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
