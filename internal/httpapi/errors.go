package httpapi

import (
	"errors"
	"net/http"

	"jd-backend/internal/logger"
	"jd-backend/internal/order"
	"jd-backend/internal/product"
	"jd-backend/internal/storage"
	"jd-backend/internal/user"
	"jd-backend/internal/utils"

	"go.uber.org/zap"
)

const reasonInvalidBody = "invalid_body"

// statusFor maps domain errors to a status code and the message shown to clients.
// Unknown errors become a generic 500.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, product.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "User not found"

	case errors.Is(err, errInvalidBody),
		errors.Is(err, utils.ErrInvalidID),
		errors.Is(err, product.ErrNameRequired),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, user.ErrNothingToUpdate),
		errors.Is(err, user.ErrImageRequired),
		errors.Is(err, storage.ErrEmptyUpload),
		errors.Is(err, storage.ErrUnsupportedImage):
		return http.StatusBadRequest, err.Error()
	}
	if fallback == "" {
		fallback = "Internal server error"
	}
	return http.StatusInternalServerError, fallback
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var rej *order.Rejection
	if errors.As(err, &rej) {
		code := http.StatusBadRequest
		if rej.Reason == order.ReasonInvalidTransition {
			code = http.StatusConflict
		}
		utils.WriteRejection(w, rej.Message, rej.Reason, code)
		return
	}

	code, message := statusFor(err, fallback)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "http"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	if errors.Is(err, errInvalidBody) {
		utils.WriteRejection(w, message, reasonInvalidBody, code)
		return
	}
	utils.WriteJSONError(w, message, code)
}
