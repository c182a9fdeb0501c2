package totem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddressFromString(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		testcases := []string{
			"0x1234567890abcdef1234567890abcdef12345678",
			"1234567890abcdef1234567890abcdef12345678",
			"0x1234567890ABCDEF1234567890ABCDEF12345678",
			"0x0000000000000000000000000000000000000000",
		}
		for _, tc := range testcases {
			t.Run(tc, func(t *testing.T) {
				addr, err := NewAddressFromString(tc)
				require.NoError(t, err)
				assert.Equal(t, strings.ToLower(strings.TrimPrefix(tc, "0x")), addr.Hex())
			})
		}
	})
	t.Run("invalid_length", func(t *testing.T) {
		testcases := []struct {
			input  string
			length int
		}{
			{"", 0},
			{"0x", 0},
			{"0x1234", 4},
			{"0x1234567890abcdef1234567890abcdef1234567890", 42},
		}
		for _, tc := range testcases {
			t.Run(tc.input, func(t *testing.T) {
				_, err := NewAddressFromString(tc.input)
				var lenErr ErrInvalidAddressLength
				require.ErrorAs(t, err, &lenErr)
				assert.Equal(t, tc.length, lenErr.Length)
			})
		}
	})
	t.Run("invalid_character", func(t *testing.T) {
		_, err := NewAddressFromString("0x123456789Zabcdef1234567890abcdef12345678")
		var charErr ErrInvalidHexCharacter
		require.ErrorAs(t, err, &charErr)
		assert.Equal(t, byte('Z'), charErr.Char)
	})
}

func TestAddressString(t *testing.T) {
	addr, err := NewAddressFromString("0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", addr.String())

	roundTripped, err := NewAddressFromString(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, roundTripped)
}

func TestNullAddress(t *testing.T) {
	assert.True(t, NullAddress.IsNull())
	assert.True(t, Address{}.IsNull())
	assert.False(t, NamedAddress("anything").IsNull())
}

func TestNamedAddress(t *testing.T) {
	a := NamedAddress("engine/ledger")
	b := NamedAddress("engine/ledger")
	c := NamedAddress("engine/market")
	assert.Equal(t, a, b, "named addresses must be deterministic")
	assert.NotEqual(t, a, c)
}
