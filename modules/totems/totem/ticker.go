package totem

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
)

const (
	MinTickerLength = 1
	MaxTickerLength = 10
)

// TickerKey is the canonical storage key of a ticker. Tickers are
// case-insensitive: the key is the SHA-256 hash of the upper-cased ticker, so
// "abc", "ABC" and "AbC" all resolve to the same totem.
type TickerKey [32]byte

func (k TickerKey) String() string {
	return hex.EncodeToString(k[:])
}

// TickerToKey normalizes a ticker to its canonical key.
func TickerToKey(ticker string) TickerKey {
	return sha256.Sum256([]byte(strings.ToUpper(ticker)))
}

// ValidateTicker checks the ticker shape. The canonical form is derived by
// TickerToKey; validation only bounds the raw input.
func ValidateTicker(ticker string) error {
	if len(ticker) < MinTickerLength {
		return errors.Wrap(errs.InvalidArgument, "ticker must not be empty")
	}
	if len(ticker) > MaxTickerLength {
		return errors.Wrapf(errs.InvalidArgument, "ticker must be at most %d characters", MaxTickerLength)
	}
	return nil
}
