package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// SetLicenseFromProxy grants a license for an already-existing totem. Callable
// only by the designated proxy mod; this is how post-creation attaches become
// licensed. Licenses are permanent: there is no revocation operation.
func (l *Ledger) SetLicenseFromProxy(ctx context.Context, caller totem.Address, ticker string, mod totem.Address) (err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	if l.proxy.IsNull() || caller != l.proxy {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the designated proxy mod")
	}
	k := totem.TickerToKey(ticker)
	if _, ok := l.state.totems[k]; !ok {
		return errors.WithStack(totem.ErrCantSetLicense)
	}
	l.state.licenses[key(k, mod)] = true
	return nil
}

// IsLicensed reports whether mod holds a license for the ticker.
func (l *Ledger) IsLicensed(ticker string, mod totem.Address) bool {
	return l.state.licenses[key(totem.TickerToKey(ticker), mod)]
}
