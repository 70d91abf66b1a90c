package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register mounts the REST API. admin guards every admin-only route.
func (h *Handler) Register(r *mux.Router, admin mux.MiddlewareFunc) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)

	api.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.ListMyOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", h.GetMyOrder).Methods(http.MethodGet)

	api.HandleFunc("/profile/init", h.InitProfile).Methods(http.MethodPost)
	api.HandleFunc("/profile/{id:[0-9]+}", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile/{id:[0-9]+}", h.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile/{id:[0-9]+}/image", h.UpdateProfileImage).Methods(http.MethodPut)

	api.HandleFunc("/users", h.ListPublicUsers).Methods(http.MethodGet)

	guarded := api.NewRoute().Subrouter()
	guarded.Use(admin)

	guarded.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	guarded.HandleFunc("/products/{id:[0-9]+}", h.DeleteProduct).Methods(http.MethodDelete)

	guarded.HandleFunc("/orders/admin", h.ListAllOrders).Methods(http.MethodGet)
	guarded.HandleFunc("/orders/{id:[0-9]+}/status", h.UpdateOrderStatus).Methods(http.MethodPut)
	guarded.HandleFunc("/orders/{id:[0-9]+}", h.DeleteOrder).Methods(http.MethodDelete)

	guarded.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	guarded.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPut)
	guarded.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodDelete)

	guarded.HandleFunc("/admin/users", h.ListUsers).Methods(http.MethodGet)
	guarded.HandleFunc("/admin/stats", h.Stats).Methods(http.MethodGet)
	guarded.HandleFunc("/admin/token", h.IssueAdminToken).Methods(http.MethodPost)
}
