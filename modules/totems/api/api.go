package api

import (
	"github.com/totemlabs/totems-engine/modules/totems/api/httphandler"
	"github.com/totemlabs/totems-engine/modules/totems/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(usecase)
}
