package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pasarmart/checkout-api/internal/cart"
	"github.com/pasarmart/checkout-api/internal/catalog"
	"github.com/pasarmart/checkout-api/internal/common"
	"github.com/pasarmart/checkout-api/internal/obs"
	"github.com/pasarmart/checkout-api/internal/offer"
	"github.com/pasarmart/checkout-api/internal/receipt"
)

// Handler wires the teller to HTTP.
type Handler struct {
	Teller   *Teller
	Offers   *offer.Store // optional: persists admin offer registrations
	Validate *validator.Validate
	Printer  receipt.Printer
	Log      zerolog.Logger
}

// CheckoutItem is one requested cart line.
type CheckoutItem struct {
	Product  string  `json:"product" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

// CheckoutInput is the POST /checkout payload.
type CheckoutInput struct {
	Items []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

// OfferInput is the admin offer registration payload.
type OfferInput struct {
	Kind     string   `json:"kind" validate:"required"`
	Product  string   `json:"product" validate:"required"`
	Argument *float64 `json:"argument"`
}

// Checkout prices a cart and returns the receipt.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Teller == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		obs.CheckoutsTotal.WithLabelValues("invalid").Inc()
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	basket := cart.New()
	for _, item := range payload.Items {
		p, err := h.Teller.ProductWithName(r.Context(), item.Product)
		if err != nil {
			h.writeCheckoutError(w, err)
			return
		}
		if err := basket.AddItemQuantity(p, item.Quantity); err != nil {
			obs.CheckoutsTotal.WithLabelValues("invalid").Inc()
			common.JSONError(w, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), nil)
			return
		}
	}

	rec, err := h.Teller.ChecksOutArticlesFrom(r.Context(), basket)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	discounts := rec.Discounts()
	obs.CheckoutsTotal.WithLabelValues("ok").Inc()
	obs.DiscountsApplied.Add(float64(len(discounts)))
	obs.ReceiptTotal.Observe(rec.TotalPrice())
	h.Log.Info().
		Str("receipt_id", rec.ID()).
		Int("line_items", len(rec.Items())).
		Int("discounts", len(discounts)).
		Float64("total", rec.TotalPrice()).
		Msg("checkout")

	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"receiptId": rec.ID(),
			"items":     rec.Items(),
			"discounts": discounts,
			"total":     rec.TotalPrice(),
			"rendered":  h.Printer.Print(rec),
		},
	})
}

// SetOffer registers or replaces the offer for a product.
func (h *Handler) SetOffer(w http.ResponseWriter, r *http.Request) {
	if h.Teller == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload OfferInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_OFFER", err.Error(), nil)
		return
	}
	kind, err := offer.ParseKind(payload.Kind)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_OFFER", err.Error(), nil)
		return
	}
	p, err := h.Teller.ProductWithName(r.Context(), payload.Product)
	if err != nil {
		h.writeOfferError(w, err)
		return
	}
	if err := h.Teller.AddSpecialOffer(kind, p, payload.Argument); err != nil {
		h.writeOfferError(w, err)
		return
	}
	if h.Offers != nil {
		stored := offer.Offer{Kind: kind, Product: p, Argument: payload.Argument}
		if err := h.Offers.Upsert(r.Context(), stored); err != nil {
			h.Log.Error().Err(err).Str("product", p.Name).Msg("persist offer")
		}
	}
	obs.OfferRegistrations.WithLabelValues(string(kind)).Inc()

	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"kind":     kind,
			"product":  p,
			"argument": payload.Argument,
		},
	})
}

func (h *Handler) validate(v any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownProduct):
		obs.CheckoutsTotal.WithLabelValues("unknown_product").Inc()
		common.JSONError(w, http.StatusUnprocessableEntity, "UNKNOWN_PRODUCT", err.Error(), nil)
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidProduct):
		obs.CheckoutsTotal.WithLabelValues("invalid").Inc()
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		obs.CheckoutsTotal.WithLabelValues("error").Inc()
		h.Log.Error().Err(err).Msg("checkout failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to complete checkout", nil)
	}
}

func (h *Handler) writeOfferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownProduct):
		common.JSONError(w, http.StatusUnprocessableEntity, "UNKNOWN_PRODUCT", err.Error(), nil)
	case errors.Is(err, offer.ErrInvalidOfferSpec):
		common.JSONError(w, http.StatusBadRequest, "INVALID_OFFER", err.Error(), nil)
	default:
		h.Log.Error().Err(err).Msg("set offer failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to register offer", nil)
	}
}
