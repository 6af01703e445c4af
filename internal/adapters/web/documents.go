package web

import (
	"io"
	"net/http"

	"resto-backoffice/internal/app"
	"resto-backoffice/internal/core"
)

const maxUploadBytes = 20 << 20 // 20 MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// extractDocument accepts a multipart upload (field "document") plus a "kind"
// form value and returns the extracted header and line items for review.
// Nothing is persisted; the client drives the review and calls the matching
// confirm endpoint with the edited payload.
func (h *Handler) extractDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, "invalid multipart upload: "+err.Error(), "BAD_UPLOAD", http.StatusBadRequest)
		return
	}

	kind := core.FlowKind(r.FormValue("kind"))
	switch kind {
	case core.FlowReception, core.FlowSales, core.FlowSync:
	default:
		writeError(w, r, "kind must be RECEPTION, SALES, or SYNC", "BAD_KIND", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, r, "missing document file", "BAD_UPLOAD", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedImageTypes[mimeType] {
		writeError(w, r, "unsupported document type "+mimeType, "BAD_UPLOAD", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, "failed to read upload: "+err.Error(), "BAD_UPLOAD", http.StatusBadRequest)
		return
	}

	res, err := h.svc.ExtractDocument(r.Context(), kind, app.Attachment{MimeType: mimeType, Data: data})
	if err != nil {
		writeError(w, r, err.Error(), "EXTRACTION_FAILED", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]any{
		"header": res.Header,
		"items":  res.Items,
	})
}

func (h *Handler) confirmReception(w http.ResponseWriter, r *http.Request) {
	var req app.ReceptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ConfirmReception(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Bill)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListBills(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"bills": res.Bills})
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetBill(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) confirmSale(w http.ResponseWriter, r *http.Request) {
	var req app.SaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ConfirmSale(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, res.Sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"sales": res.Sales})
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Sale)
}
