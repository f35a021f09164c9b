package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shorter/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// GenerateQR handles GET /qr/{shortURL} - generates a QR code image for a
// short link.
func (h *URLHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	code := mux.Vars(r)["shortURL"]

	if _, err := h.resolve(ctx, code); err != nil {
		if err == store.ErrNotFound {
			log.Warn().Str("short_url", code).Msg("URL not found for QR generation")
			SendJSONError(w, http.StatusNotFound, errors.New("URL not found"), "Short URL does not exist")
			return
		}
		log.Error().Err(err).Str("short_url", code).Msg("Failed to check URL existence for QR")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to verify URL")
		return
	}

	// Get size parameter (default: 256, min: 128, max: 1024)
	size := 256
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	fullURL := fmt.Sprintf("%s/%s", h.baseURL, code)

	qrCode, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		log.Error().Err(err).Str("url", fullURL).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(qrCode)))

	if _, err := w.Write(qrCode); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
	}
}
