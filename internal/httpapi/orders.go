package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"jd-backend/internal/logger"
	"jd-backend/internal/order"
	"jd-backend/internal/transport"
	"jd-backend/internal/utils"

	"github.com/gorilla/mux"
)

// IdempotencyKeyHeader lets clients retry a placement safely.
const IdempotencyKeyHeader = "Idempotency-Key"

type placeOrderRequest struct {
	UserID order.Scalar      `json:"userId"`
	Items  []json.RawMessage `json:"items"`
	Total  order.Scalar      `json:"total"`
}

// submittedItems decodes each line on its own. A line that is not an item object
// becomes an empty item, which the validator drops like any other malformed line.
func submittedItems(raw []json.RawMessage) []order.SubmittedItem {
	items := make([]order.SubmittedItem, len(raw))
	for i, r := range raw {
		var it order.SubmittedItem
		if err := json.Unmarshal(r, &it); err == nil {
			items[i] = it
		}
	}
	return items
}

type placeOrderResponse struct {
	Success  bool  `json:"success"`
	OrderID  int64 `json:"orderId"`
	Replayed bool  `json:"replayed,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// resolveCaller resolves the caller once and tags the request context for logging.
func resolveCaller(r *http.Request, bodyUserID string) (transport.Identity, context.Context) {
	caller := transport.ResolveIdentity(r, bodyUserID)
	ctx := r.Context()
	if !caller.Empty() {
		ctx = logger.WithUserID(ctx, caller.String())
	}
	return caller, ctx
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}

	caller, ctx := resolveCaller(r, string(req.UserID))
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	placement, err := h.Orders.PlaceOrder(
		ctx,
		caller,
		order.Submission{Items: submittedItems(req.Items), Total: req.Total},
		key,
	)
	if err != nil {
		writeError(w, r, err, "Failed to place order")
		return
	}

	utils.WriteJSON(w, http.StatusOK, placeOrderResponse{
		Success:  true,
		OrderID:  placement.OrderID,
		Replayed: placement.Replayed,
	})
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	caller, ctx := resolveCaller(r, "")

	orders, err := h.Orders.ListMyOrders(ctx, caller)
	if err != nil {
		writeError(w, r, err, "Failed to load orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.MapOrdersToResponse(orders))
}

func (h *Handler) GetMyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	caller, ctx := resolveCaller(r, "")

	o, err := h.Orders.GetMyOrder(ctx, caller, id)
	if err != nil {
		writeError(w, r, err, "Failed to load order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.MapOrderToResponse(o))
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAllOrders(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to load admin orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.MapOrdersToResponse(orders))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}

	change, err := h.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err, "Failed to update status")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orderId": change.OrderID,
		"from":    change.From,
		"status":  change.To,
	})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	if err := h.Orders.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}
