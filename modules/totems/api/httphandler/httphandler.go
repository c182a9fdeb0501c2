package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func resolveAddress(s string) (totem.Address, error) {
	addr, err := totem.NewAddressFromString(s)
	if err != nil {
		return totem.NullAddress, errs.WithPublicMessage(errors.WithStack(err), "invalid address")
	}
	return addr, nil
}
