package httpapi

import (
	"errors"
	"net/http"

	"jd-backend/internal/product"
	"jd-backend/internal/storage"
	"jd-backend/internal/utils"

	"github.com/gorilla/mux"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to load products")
		return
	}
	utils.WriteJSON(w, http.StatusOK, product.MapProductsToResponse(products))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	p, err := h.Products.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to load product")
		return
	}
	utils.WriteJSON(w, http.StatusOK, product.MapProductToResponse(p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, r, errInvalidBody, "")
		return
	}

	upload, cleanup, err := formImage(r, "image")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	defer cleanup()

	p, err := h.Products.CreateProduct(r.Context(), product.NewProduct{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}, upload)
	if err != nil {
		writeError(w, r, err, "Failed to create product")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"product": product.MapProductToResponse(p),
	})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	if err := h.Products.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete product")
		return
	}
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

// formImage returns the named multipart file, or nil when the field is absent.
func formImage(r *http.Request, field string) (*storage.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errInvalidBody
	}

	return &storage.Upload{Filename: header.Filename, Body: file}, func() { _ = file.Close() }, nil
}
