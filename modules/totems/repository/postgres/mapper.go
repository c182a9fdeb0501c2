package postgres

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type totemEventModel struct {
	Id          int64
	Kind        string
	Ticker      string
	Actor       string
	FromAccount string
	ToAccount   string
	Mod         string
	Amount      pgtype.Numeric
	Memo        string
	Timestamp   pgtype.Timestamptz
}

func uint128FromNumeric(src pgtype.Numeric) (uint128.Uint128, error) {
	if !src.Valid {
		return uint128.Zero, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return result, nil
}

func numericFromUint128(src uint128.Uint128) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.String())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

// Addresses are stored as lowercase hex without prefix. The null address is
// stored as an empty string so optional columns read naturally in SQL.
func addressToModel(src totem.Address) string {
	if src.IsNull() {
		return ""
	}
	return src.Hex()
}

func addressFromModel(src string) (totem.Address, error) {
	if src == "" {
		return totem.NullAddress, nil
	}
	addr, err := totem.NewAddressFromString(src)
	if err != nil {
		return totem.NullAddress, errors.WithStack(err)
	}
	return addr, nil
}

func mapTotemEventTypeToModel(src *entity.TotemEvent) (totemEventModel, error) {
	amount, err := numericFromUint128(src.Amount)
	if err != nil {
		return totemEventModel{}, errors.Wrap(err, "failed to convert amount")
	}
	return totemEventModel{
		Id:          src.Id,
		Kind:        string(src.Kind),
		Ticker:      src.Ticker,
		Actor:       addressToModel(src.Actor),
		FromAccount: addressToModel(src.From),
		ToAccount:   addressToModel(src.To),
		Mod:         addressToModel(src.Mod),
		Amount:      amount,
		Memo:        src.Memo,
		Timestamp:   pgtype.Timestamptz{Time: src.Timestamp.UTC(), Valid: true},
	}, nil
}

func mapTotemEventModelToType(src totemEventModel) (*entity.TotemEvent, error) {
	amount, err := uint128FromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	actor, err := addressFromModel(src.Actor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse actor")
	}
	from, err := addressFromModel(src.FromAccount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse from account")
	}
	to, err := addressFromModel(src.ToAccount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse to account")
	}
	mod, err := addressFromModel(src.Mod)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse mod")
	}
	return &entity.TotemEvent{
		Id:        src.Id,
		Kind:      entity.EventKind(src.Kind),
		Ticker:    src.Ticker,
		Actor:     actor,
		From:      from,
		To:        to,
		Mod:       mod,
		Amount:    amount,
		Memo:      src.Memo,
		Timestamp: src.Timestamp.Time,
	}, nil
}
