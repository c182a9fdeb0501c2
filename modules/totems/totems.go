package totems

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/internal/config"
	"github.com/totemlabs/totems-engine/internal/postgres"
	totemsapi "github.com/totemlabs/totems-engine/modules/totems/api"
	totemsconfig "github.com/totemlabs/totems-engine/modules/totems/config"
	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/market"
	"github.com/totemlabs/totems-engine/modules/totems/repository/memory"
	totemspostgres "github.com/totemlabs/totems-engine/modules/totems/repository/postgres"
	totemsusecase "github.com/totemlabs/totems-engine/modules/totems/usecase"
	"github.com/totemlabs/totems-engine/pkg/logger"
)

func marketParams(conf totemsconfig.MarketConfig) (market.Params, error) {
	params := market.DefaultParams()
	if conf.MinBaseFee != "" {
		fee, err := uint128.FromString(conf.MinBaseFee)
		if err != nil {
			return market.Params{}, errors.Wrap(err, "invalid min_base_fee")
		}
		params.MinBaseFee = fee
	}
	if conf.BurnedFee != "" {
		fee, err := uint128.FromString(conf.BurnedFee)
		if err != nil {
			return market.Params{}, errors.Wrap(err, "invalid burned_fee")
		}
		params.BurnedFee = fee
	}
	return params, nil
}

// New wires the totems module from configuration: event store, engine,
// usecase and API handlers.
func New(injector do.Injector) (*Engine, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	var eventDg datagateway.TotemEventDataGateway
	var cleanupFuncs []func()
	switch strings.ToLower(conf.Modules.Totems.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Modules.Totems.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "invalid Postgres configuration for totems")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, pg.Close)
		eventDg = totemspostgres.NewRepository(pg)
	case "memory", "":
		eventDg = memory.NewRepository()
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for totems is not supported", conf.Modules.Totems.Database)
	}

	params, err := marketParams(conf.Modules.Totems.Market)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	engine, err := NewEngine(ctx, EngineOptions{
		Params: params,
		Sink:   totemsusecase.NewEventRecorder(eventDg),
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't assemble totems engine")
	}
	for _, fn := range cleanupFuncs {
		engine.OnCleanup(fn)
	}

	apiHandlers := lo.Uniq(conf.Modules.Totems.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			usecase := totemsusecase.New(engine.Journal, engine.Ledger, engine.Market, eventDg)
			httpHandler := totemsapi.NewHTTPHandler(usecase)
			if err := httpHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount totems API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	return engine, nil
}
