package drafts

import (
	"ecards-backend/core"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

const serviceName = "ecards-backend"

type (
	HealthResponse struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

// HandleHealth reports liveness. It never touches storage.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, HealthResponse{Status: "ok", Service: serviceName})
	}
}

// HandleUpsert creates or updates a draft from the JSON request body. The
// body is stored as-is; only a missing id and a missing updatedAt are filled
// in by the server.
func HandleUpsert(draftStore core.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload any
		if err := render.DecodeJSON(r.Body, &payload); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid JSON"})
			return
		}
		obj, ok := payload.(map[string]any)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "Invalid JSON"})
			return
		}

		draft := core.Draft(obj)
		if !draft.HasUpdatedAt() {
			draft.SetUpdatedAt(time.Now().UnixMilli())
		}

		stored, err := draftStore.Upsert(r.Context(), draft)
		if err != nil {
			logrus.WithField("error", err).Error("Failed to save draft")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "Failed to save"})
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, stored)
	}
}

// HandleGet fetches a stored draft by the id in the request path.
func HandleGet(draftStore core.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "draft_id")
		draft, err := draftStore.FindID(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrDraftNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, ErrorResponse{Error: "Not found"})
				return
			}
			logrus.WithField("error", err).Error("Failed to load draft")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Error: "Failed to load"})
			return
		}
		render.JSON(w, r, draft)
	}
}
