package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type CartsHandler struct {
	Carts    *shopcarts.CartService
	Producer EventPublisher
	Service  string
}

type cartReq struct {
	CustomerID *int64 `json:"customer_id"`
}

type cartResp struct {
	ShopcartID int64 `json:"shopcart_id"`
	CustomerID int64 `json:"customer_id"`
}

func toCartResp(c shopcarts.Shopcart) cartResp {
	return cartResp{ShopcartID: c.ShopcartID, CustomerID: c.CustomerID}
}

func (h *CartsHandler) Register(r *chi.Mux) {
	r.Post("/shopcarts", h.createCart)
	r.Get("/shopcarts", h.listCarts)
	r.Get("/shopcarts/{id}", h.getCart)
	r.Put("/shopcarts/{id}", h.updateCart)
	r.Delete("/shopcarts/{id}", h.deleteCart)
	r.Post("/shopcarts/{id}/clear", h.clearCart)
}

func (h *CartsHandler) createCart(w http.ResponseWriter, r *http.Request) {
	var req cartReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid shopcart: "+err.Error())
		return
	}
	if req.CustomerID == nil {
		writeError(w, http.StatusBadRequest, "invalid shopcart: missing customer_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Create(ctx, *req.CustomerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
		shopcarts.EventCartCreated, c.ShopcartID, cartPayload(c))

	w.Header().Set("Location", fmt.Sprintf("/shopcarts/%d", c.ShopcartID))
	writeJSON(w, http.StatusCreated, toCartResp(c))
}

func (h *CartsHandler) listCarts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		carts []shopcarts.Shopcart
		err   error
	)
	if q := r.URL.Query().Get("customer_id"); q != "" {
		customerID, perr := strconv.ParseInt(q, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "customer_id must be an integer")
			return
		}
		carts, err = h.Carts.FindByCustomer(ctx, customerID)
	} else {
		carts, err = h.Carts.List(ctx)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]cartResp, 0, len(carts))
	for _, c := range carts {
		out = append(out, toCartResp(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CartsHandler) getCart(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "shopcart not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Retrieve(ctx, shopcartID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(c))
}

func (h *CartsHandler) updateCart(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "shopcart not found")
		return
	}

	var req cartReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid shopcart: "+err.Error())
		return
	}
	if req.CustomerID == nil {
		writeError(w, http.StatusBadRequest, "invalid shopcart: missing customer_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Update(ctx, shopcartID, *req.CustomerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
		shopcarts.EventCartUpdated, c.ShopcartID, cartPayload(c))

	writeJSON(w, http.StatusOK, toCartResp(c))
}

func (h *CartsHandler) deleteCart(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	if !ok {
		// a non-numeric id matches nothing; delete is a no-op success
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Carts.Delete(ctx, shopcartID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if deleted {
		publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
			shopcarts.EventCartDeleted, shopcartID,
			shopcarts.CartPayload{ShopcartID: shopcartID})
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartsHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "shopcart not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.ClearItems(ctx, shopcartID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
		shopcarts.EventCartCleared, c.ShopcartID, cartPayload(c))

	writeJSON(w, http.StatusOK, toCartResp(c))
}
