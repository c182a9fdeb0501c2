package usecase

import (
	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/ledger"
	"github.com/totemlabs/totems-engine/modules/totems/market"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
)

type Usecase struct {
	journal *txn.Journal
	ledger  *ledger.Ledger
	market  *market.Market
	eventDg datagateway.TotemEventDataGateway
}

func New(journal *txn.Journal, ldg *ledger.Ledger, mkt *market.Market, eventDg datagateway.TotemEventDataGateway) *Usecase {
	return &Usecase{
		journal: journal,
		ledger:  ldg,
		market:  mkt,
		eventDg: eventDg,
	}
}
