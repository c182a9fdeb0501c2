package totem

import (
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
)

// The protocol failure taxonomy is a closed set of named conditions shared by
// the ledger, the market and the proxy mod. Each error carries the minimal
// structured context a caller needs to react, and unwraps to the generic
// errs.ErrorKind of its category so errors.Is works at both granularities.

type protocolError struct {
	kind errs.ErrorKind
	msg  string
}

func (e protocolError) Error() string { return e.msg }
func (e protocolError) Unwrap() error { return e.kind }

var (
	// ErrTotemNotActive is returned for any mutating operation on a totem that
	// is still inside its creation transaction's hook dispatch.
	ErrTotemNotActive = protocolError{errs.InvalidState, "totem is not active"}

	// ErrZeroSupply is returned when a creation would produce a totem with no
	// issuance path at all.
	ErrZeroSupply = protocolError{errs.InvalidArgument, "totem must have a nonzero max supply or an unlimited minter"}

	// ErrUnauthorized is returned when the caller is not the owner, seller,
	// creator or an authorized relay.
	ErrUnauthorized = protocolError{errs.Unauthorized, "caller is not authorized"}

	// ErrNotLicensed is returned by a mod receiving a hook for a totem it was
	// never licensed for.
	ErrNotLicensed = protocolError{errs.Unauthorized, "mod is not licensed for this totem"}

	// ErrInvalidModEventOrigin is returned by a mod receiving a hook from an
	// origin other than the ledger or the designated proxy.
	ErrInvalidModEventOrigin = protocolError{errs.Unauthorized, "hook origin is not the ledger"}

	// ErrCannotTransferToUnlimitedMinter rejects credits to registered
	// unlimited minters, which must structurally always hold zero balance.
	ErrCannotTransferToUnlimitedMinter = protocolError{errs.InvalidArgument, "cannot transfer to an unlimited minter"}

	// ErrCantSetLicense is returned when the proxy grants a license for a
	// totem that does not exist.
	ErrCantSetLicense = protocolError{errs.InvalidState, "cannot set license for unknown totem"}

	// ErrCantUseCreatedHook is returned when a mod is attached to the proxy's
	// created-hook list, which the proxy can never be licensed to receive.
	ErrCantUseCreatedHook = protocolError{errs.Unsupported, "proxy cannot register mods for the created hook"}

	// ErrNoFeeRequired is returned when payment accompanies an attach of an
	// already-licensed mod.
	ErrNoFeeRequired = protocolError{errs.InvalidArgument, "mod is already licensed, no fee required"}
)

type ErrTotemNotFound struct {
	Ticker string
}

func (e ErrTotemNotFound) Error() string {
	return fmt.Sprintf("totem %q not found", e.Ticker)
}
func (e ErrTotemNotFound) Unwrap() error { return errs.NotFound }

type ErrTotemAlreadyExists struct {
	Ticker string
}

func (e ErrTotemAlreadyExists) Error() string {
	return fmt.Sprintf("totem %q already exists", e.Ticker)
}
func (e ErrTotemAlreadyExists) Unwrap() error { return errs.Duplicate }

type ErrModNotFound struct {
	Mod Address
}

func (e ErrModNotFound) Error() string {
	return fmt.Sprintf("mod %s is not published", e.Mod)
}
func (e ErrModNotFound) Unwrap() error { return errs.NotFound }

type ErrModAlreadyPublished struct {
	Mod Address
}

func (e ErrModAlreadyPublished) Error() string {
	return fmt.Sprintf("mod %s is already published", e.Mod)
}
func (e ErrModAlreadyPublished) Unwrap() error { return errs.Duplicate }

type ErrModDoesntSupportHook struct {
	Mod  Address
	Hook Hook
}

func (e ErrModDoesntSupportHook) Error() string {
	return fmt.Sprintf("mod %s does not support the %s hook", e.Mod, e.Hook)
}
func (e ErrModDoesntSupportHook) Unwrap() error { return errs.Unsupported }

type ErrModNotMinter struct {
	Mod Address
}

func (e ErrModNotMinter) Error() string {
	return fmt.Sprintf("mod %s is not a minter for this totem", e.Mod)
}
func (e ErrModNotMinter) Unwrap() error { return errs.Unauthorized }

type ErrModNotSetup struct {
	Mod    Address
	Ticker string
}

func (e ErrModNotSetup) Error() string {
	return fmt.Sprintf("mod %s is not set up for totem %q", e.Mod, e.Ticker)
}
func (e ErrModNotSetup) Unwrap() error { return errs.InvalidState }

type ErrInsufficientFee struct {
	Required uint128.Uint128
	Provided uint128.Uint128
}

func (e ErrInsufficientFee) Error() string {
	return fmt.Sprintf("insufficient fee: required %s, provided %s", e.Required, e.Provided)
}
func (e ErrInsufficientFee) Unwrap() error { return errs.InsufficientFunds }

type ErrInsufficientBalance struct {
	Required  uint128.Uint128
	Available uint128.Uint128
}

func (e ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s", e.Required, e.Available)
}
func (e ErrInsufficientBalance) Unwrap() error { return errs.InsufficientFunds }

type ErrReferrerFeeTooLow struct {
	Fee uint128.Uint128
	Min uint128.Uint128
}

func (e ErrReferrerFeeTooLow) Error() string {
	return fmt.Sprintf("referrer fee %s is below the minimum base fee %s", e.Fee, e.Min)
}
func (e ErrReferrerFeeTooLow) Unwrap() error { return errs.InvalidArgument }

type ErrTooManyAllocations struct {
	Count int
}

func (e ErrTooManyAllocations) Error() string {
	return fmt.Sprintf("too many allocations: %d, maximum is %d", e.Count, MaxAllocations)
}
func (e ErrTooManyAllocations) Unwrap() error { return errs.InvalidArgument }

type ErrTooManyMods struct {
	Count int
}

func (e ErrTooManyMods) Error() string {
	return fmt.Sprintf("too many mods: %d, maximum is %d", e.Count, MaxMods)
}
func (e ErrTooManyMods) Unwrap() error { return errs.InvalidArgument }

type ErrInvalidAllocation struct {
	Index  int
	Reason string
}

func (e ErrInvalidAllocation) Error() string {
	return fmt.Sprintf("invalid allocation at index %d: %s", e.Index, e.Reason)
}
func (e ErrInvalidAllocation) Unwrap() error { return errs.InvalidArgument }

type ErrInvalidCursor struct {
	Cursor uint64
	Length uint64
}

func (e ErrInvalidCursor) Error() string {
	return fmt.Sprintf("invalid cursor %d for list of length %d", e.Cursor, e.Length)
}
func (e ErrInvalidCursor) Unwrap() error { return errs.InvalidArgument }

type ErrModNameTooShort struct {
	Length int
}

func (e ErrModNameTooShort) Error() string {
	return fmt.Sprintf("mod name length %d is below the minimum of %d", e.Length, MinModNameLength)
}
func (e ErrModNameTooShort) Unwrap() error { return errs.InvalidArgument }

type ErrModNameTooLong struct {
	Length int
}

func (e ErrModNameTooLong) Error() string {
	return fmt.Sprintf("mod name length %d exceeds the maximum of %d", e.Length, MaxModNameLength)
}
func (e ErrModNameTooLong) Unwrap() error { return errs.InvalidArgument }

type ErrModSummaryTooShort struct {
	Length int
}

func (e ErrModSummaryTooShort) Error() string {
	return fmt.Sprintf("mod summary length %d is below the minimum of %d", e.Length, MinModSummaryLength)
}
func (e ErrModSummaryTooShort) Unwrap() error { return errs.InvalidArgument }

type ErrModSummaryTooLong struct {
	Length int
}

func (e ErrModSummaryTooLong) Error() string {
	return fmt.Sprintf("mod summary length %d exceeds the maximum of %d", e.Length, MaxModSummaryLength)
}
func (e ErrModSummaryTooLong) Unwrap() error { return errs.InvalidArgument }

type ErrInvalidAddressLength struct {
	Length int
}

func (e ErrInvalidAddressLength) Error() string {
	return fmt.Sprintf("invalid address length %d, expected %d hex characters", e.Length, AddressLength*2)
}
func (e ErrInvalidAddressLength) Unwrap() error { return errs.InvalidArgument }

type ErrInvalidHexCharacter struct {
	Char byte
}

func (e ErrInvalidHexCharacter) Error() string {
	return fmt.Sprintf("invalid hex character %q in address", e.Char)
}
func (e ErrInvalidHexCharacter) Unwrap() error { return errs.InvalidArgument }

type ErrDuplicateHook struct {
	Hook Hook
}

func (e ErrDuplicateHook) Error() string {
	return fmt.Sprintf("duplicate hook %s", e.Hook)
}
func (e ErrDuplicateHook) Unwrap() error { return errs.InvalidArgument }
