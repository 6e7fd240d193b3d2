// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/export"
	"github.com/numbersmith/number-inventory-service/internal/usecase"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// NumberSearcher runs number searches
type NumberSearcher interface {
	Search(ctx context.Context, req model.SearchRequest, progress usecase.ProgressSink) (*model.SearchResult, error)
}

// NumberAcquirer purchases numbers and lists the acquired inventory
type NumberAcquirer interface {
	Acquire(ctx context.Context, req model.AcquisitionRequest) (*model.AcquisitionBatch, error)
	ListAcquired(ctx context.Context, limit, offset int) ([]model.AcquisitionRecord, error)
	IsReady(ctx context.Context) error
}

// NumbersHandler serves the /v1/numbers API
type NumbersHandler struct {
	search      NumberSearcher
	acquisition NumberAcquirer
	validate    *validator.Validate
}

// Search handles POST /v1/numbers/search. With ?format=csv the numbers are
// streamed as CSV instead of the JSON envelope.
func (h *NumbersHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := export.FormatJSON
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := export.ParseFormat(raw)
		if err != nil {
			writeError(ctx, w, errors.NewValidation(err.Error()))
			return
		}
		format = f
	}

	var dto SearchRequestDTO
	if err := h.decode(r, &dto); err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := searchRequestToModel(dto)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	slog.DebugContext(ctx, "numbers.search",
		"country", req.Criteria.Country,
		"type", req.Criteria.Type,
	)

	result, err := h.search.Search(ctx, req, nil)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if format == export.FormatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="numbers.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := export.WriteCSV(w, result.Candidates); err != nil {
			slog.ErrorContext(ctx, "failed to stream csv response", "error", err)
		}
		return
	}

	respondWithJSON(ctx, w, http.StatusOK, searchResultToResponse(result.Candidates, result.Batches, result.StopReason, result.Duration))
}

// Acquire handles POST /v1/numbers/acquire
func (h *NumbersHandler) Acquire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dto AcquireRequestDTO
	if err := h.decode(r, &dto); err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := acquireRequestToModel(dto)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	batch, err := h.acquisition.Acquire(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondWithJSON(ctx, w, http.StatusOK, batchToResponse(batch))
}

// ListAcquired handles GET /v1/numbers/acquired
func (h *NumbersHandler) ListAcquired(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	records, err := h.acquisition.ListAcquired(ctx, limit, offset)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondWithJSON(ctx, w, http.StatusOK, recordsToResponse(records, limit, offset))
}

// Livez handles GET /livez
func (h *NumbersHandler) Livez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// Readyz handles GET /readyz
func (h *NumbersHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.acquisition.IsReady(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "service not ready", "error", err)
		respondWithJSON(r.Context(), w, http.StatusServiceUnavailable, ErrorResponseDTO{Error: err.Error()})
		return
	}
	h.Livez(w, r)
}

// decode reads a JSON body into dto and validates it
func (h *NumbersHandler) decode(r *http.Request, dto any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dto); err != nil {
		return errors.NewValidation("invalid request body", err)
	}
	if err := h.validate.StructCtx(r.Context(), dto); err != nil {
		return errors.NewValidation("validation failed", err)
	}
	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidation("query parameter "+name+" must be an integer", err)
	}
	return n, nil
}

func respondWithJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// NewNumbersHandler creates the handler set
func NewNumbersHandler(search NumberSearcher, acquisition NumberAcquirer) *NumbersHandler {
	return &NumbersHandler{
		search:      search,
		acquisition: acquisition,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}
