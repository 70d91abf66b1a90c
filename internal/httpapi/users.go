package httpapi

import (
	"errors"
	"net/http"

	"jd-backend/internal/user"
	"jd-backend/internal/utils"

	"github.com/gorilla/mux"
)

// profileRequest accepts both altPhone and alt_phone.
type profileRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	AltPhone      *string `json:"altPhone"`
	AltPhoneSnake *string `json:"alt_phone"`
	Address       *string `json:"address"`
}

func (p profileRequest) toUpdate() user.ProfileUpdate {
	alt := p.AltPhone
	if alt == nil {
		alt = p.AltPhoneSnake
	}
	return user.ProfileUpdate{
		Name:     utils.TrimPtr(p.Name),
		Phone:    utils.TrimPtr(p.Phone),
		AltPhone: utils.TrimPtr(alt),
		Address:  utils.TrimPtr(p.Address),
	}
}

func (h *Handler) InitProfile(w http.ResponseWriter, r *http.Request) {
	id, err := h.Users.InitProfile(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to create profile")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"userId": id})
}

// GetProfile answers {} for unknown ids so clients can treat it as an empty profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	u, err := h.Users.GetProfile(r.Context(), id)
	if errors.Is(err, user.ErrUserNotFound) {
		utils.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		writeError(w, r, err, "Failed to load profile")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user.MapUserToResponse(u))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}

	if err := h.Users.UpdateProfile(r.Context(), id, req.toUpdate()); err != nil {
		writeError(w, r, err, "Failed to update profile")
		return
	}
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		writeError(w, r, errInvalidBody, "")
		return
	}

	upload, cleanup, err := formImage(r, "image")
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	defer cleanup()

	path, err := h.Users.UpdateProfileImage(r.Context(), id, upload)
	if err != nil {
		writeError(w, r, err, "Failed to update image")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "image": path})
}

func (h *Handler) ListPublicUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListPublicUsers(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch users")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user.MapPublicUsers(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	u, err := h.Users.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to fetch user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user.MapUserToResponse(u))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	h.UpdateProfile(w, r)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user.MapUsersToResponse(users))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.Users.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, "Server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user.MapStats(s))
}
