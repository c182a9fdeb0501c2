package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Get("/totems", h.GetTotems)
	r.Get("/totems/:ticker", h.GetTotemInfo)
	r.Get("/totems/:ticker/stats", h.GetStats)
	r.Get("/totems/:ticker/holders", h.GetHolders)
	r.Get("/totems/:ticker/balances/:address", h.GetBalance)
	r.Get("/totems/:ticker/relays", h.GetRelays)
	r.Get("/totems/:ticker/events", h.GetEvents)
	r.Get("/mods", h.GetMods)
	r.Get("/mods/fee", h.GetModFee)
	r.Get("/mods/:address", h.GetModInfo)
	return nil
}
