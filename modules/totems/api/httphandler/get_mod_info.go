package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type getModInfoRequest struct {
	Address string `params:"address"`
}

type actionInputResult struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Mode  uint8  `json:"mode"`
	Value string `json:"value,omitempty"`
}

type requiredActionResult struct {
	Signature string              `json:"signature"`
	Inputs    []actionInputResult `json:"inputs"`
	Cost      uint128.Uint128     `json:"cost"`
	Reason    string              `json:"reason,omitempty"`
}

type modResult struct {
	Address         string                 `json:"address"`
	Seller          string                 `json:"seller"`
	Price           uint128.Uint128        `json:"price"`
	Name            string                 `json:"name"`
	Summary         string                 `json:"summary"`
	Markdown        string                 `json:"markdown,omitempty"`
	Image           string                 `json:"image"`
	Website         string                 `json:"website,omitempty"`
	IsMinter        bool                   `json:"isMinter"`
	NeedsUnlimited  bool                   `json:"needsUnlimited"`
	Hooks           []string               `json:"hooks"`
	RequiredActions []requiredActionResult `json:"requiredActions,omitempty"`
	PublishedAt     time.Time              `json:"publishedAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func mapModResult(m totem.Mod) modResult {
	return modResult{
		Address:        m.Mod.String(),
		Seller:         m.Seller.String(),
		Price:          m.Price,
		Name:           m.Details.Name,
		Summary:        m.Details.Summary,
		Markdown:       m.Details.Markdown,
		Image:          m.Details.Image,
		Website:        m.Details.Website,
		IsMinter:       m.Details.IsMinter,
		NeedsUnlimited: m.Details.NeedsUnlimited,
		Hooks: lo.Map(m.Hooks, func(h totem.Hook, _ int) string {
			return h.String()
		}),
		RequiredActions: lo.Map(m.RequiredActions, func(a totem.RequiredAction, _ int) requiredActionResult {
			return requiredActionResult{
				Signature: a.Signature,
				Inputs: lo.Map(a.Inputs, func(in totem.ActionInput, _ int) actionInputResult {
					return actionInputResult{
						Name:  in.Name,
						Type:  in.Type,
						Mode:  uint8(in.Mode),
						Value: in.Value,
					}
				}),
				Cost:   a.Cost,
				Reason: a.Reason,
			}
		}),
		PublishedAt: m.PublishedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type getModInfoResponse = HttpResponse[modResult]

func (h *HttpHandler) GetModInfo(ctx *fiber.Ctx) (err error) {
	var req getModInfoRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	address, err := resolveAddress(req.Address)
	if err != nil {
		return errors.WithStack(err)
	}

	mod, err := h.usecase.GetMod(address)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("mod not found")
		}
		return errors.Wrap(err, "error during GetMod")
	}

	result := mapModResult(mod)
	return errors.WithStack(ctx.JSON(getModInfoResponse{
		Result: &result,
	}))
}
