package totem

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// AddressLength is the length of an address in bytes.
const AddressLength = 20

// AddressHexLength is the length of an address in hex characters, without prefix.
const AddressHexLength = AddressLength * 2

// Address identifies a participant in the protocol: an account, a mod,
// a relay or one of the engine contracts. The zero value is the null address.
type Address [AddressLength]byte

// NullAddress is the zero address.
var NullAddress = Address{}

func (a Address) IsNull() bool {
	return a == NullAddress
}

// Hex returns the address as 40 lowercase hex characters without prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return "0x" + a.Hex()
}

// NewAddressFromString parses an address from its hex representation,
// with or without the "0x" prefix.
func NewAddressFromString(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != AddressLength*2 {
		return Address{}, errors.WithStack(ErrInvalidAddressLength{Length: len(s)})
	}
	var addr Address
	for i := 0; i < len(s); i += 2 {
		hi, ok := fromHexChar(s[i])
		if !ok {
			return Address{}, errors.WithStack(ErrInvalidHexCharacter{Char: s[i]})
		}
		lo, ok := fromHexChar(s[i+1])
		if !ok {
			return Address{}, errors.WithStack(ErrInvalidHexCharacter{Char: s[i+1]})
		}
		addr[i/2] = hi<<4 | lo
	}
	return addr, nil
}

func fromHexChar(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// NamedAddress derives a deterministic address from a human-readable name.
// Used for engine contracts and test fixtures.
func NamedAddress(name string) Address {
	sum := sha256.Sum256([]byte("totems/address/" + name))
	var addr Address
	copy(addr[:], sum[:AddressLength])
	return addr
}
