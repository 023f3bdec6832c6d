package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

type ItemsHandler struct {
	Items    *shopcarts.ItemService
	Producer EventPublisher
	Service  string
}

type itemCreateReq struct {
	ProductID *int64           `json:"product_id"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Price     *decimal.Decimal `json:"price"`
}

type itemUpdateReq struct {
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type itemResp struct {
	ItemID     int64  `json:"item_id"`
	ShopcartID int64  `json:"shopcart_id"`
	ProductID  int64  `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
}

func toItemResp(it shopcarts.Item) itemResp {
	return itemResp{
		ItemID:     it.ItemID,
		ShopcartID: it.ShopcartID,
		ProductID:  it.ProductID,
		Quantity:   it.Quantity,
		Price:      it.Price.StringFixed(2),
	}
}

func (h *ItemsHandler) Register(r *chi.Mux) {
	r.Post("/shopcarts/{id}/items", h.createItem)
	r.Get("/shopcarts/{id}/items", h.listItems)
	r.Get("/shopcarts/{id}/items/{item_id}", h.getItem)
	r.Put("/shopcarts/{id}/items/{item_id}", h.updateItem)
	r.Delete("/shopcarts/{id}/items/{item_id}", h.deleteItem)
}

func (h *ItemsHandler) createItem(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "shopcart not found")
		return
	}

	var req itemCreateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item: "+err.Error())
		return
	}
	if req.ProductID == nil {
		writeError(w, http.StatusBadRequest, "invalid item: missing product_id")
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid item: missing quantity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.Items.Create(ctx, shopcartID, shopcarts.ItemInput{
		ProductID: *req.ProductID,
		Quantity:  *req.Quantity,
		UnitPrice: req.UnitPrice,
		Price:     req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
		shopcarts.EventItemCreated, shopcartID, itemPayload(it))

	w.Header().Set("Location", fmt.Sprintf("/shopcarts/%d/items/%d", shopcartID, it.ItemID))
	writeJSON(w, http.StatusCreated, toItemResp(it))
}

func (h *ItemsHandler) listItems(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "shopcart not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Items.List(ctx, shopcartID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]itemResp, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResp(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ItemsHandler) getItem(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	itemID, ok2 := pathID(r, "item_id")
	if !ok || !ok2 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it, err := h.Items.Retrieve(ctx, shopcartID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResp(it))
}

func (h *ItemsHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	itemID, ok2 := pathID(r, "item_id")
	if !ok || !ok2 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemUpdateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.Items.Update(ctx, shopcartID, itemID, shopcarts.ItemUpdate{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
		shopcarts.EventItemUpdated, shopcartID, itemPayload(it))

	writeJSON(w, http.StatusOK, toItemResp(it))
}

func (h *ItemsHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	shopcartID, ok := pathID(r, "id")
	itemID, ok2 := pathID(r, "item_id")
	if !ok || !ok2 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Items.Delete(ctx, shopcartID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if deleted {
		publishEvent(h.Producer, h.Service, middleware.GetReqID(r.Context()),
			shopcarts.EventItemDeleted, shopcartID,
			shopcarts.ItemPayload{ItemID: itemID, ShopcartID: shopcartID})
	}
	w.WriteHeader(http.StatusNoContent)
}
