package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/paper-digest/backend/internal/domain"
	"github.com/paper-digest/backend/internal/usecase"
)

const defaultPerJournal = 20

type Handler struct {
	digestUsecase *usecase.DigestUsecase
}

func NewHandler(digest *usecase.DigestUsecase) *Handler {
	return &Handler{digestUsecase: digest}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type journalFeedResponse struct {
	Status              int           `json:"status"`
	Results             []domain.Work `json:"results"`
	RequestedPerJournal int           `json:"requested_per_journal"`
	Delivered           int           `json:"delivered"`
}

// GetJournalFeed serves recent research articles for one journal.
func (h *Handler) GetJournalFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	since := strings.TrimSpace(q.Get("since"))
	if since == "" {
		writeError(w, http.StatusBadRequest, "since is required")
		return
	}

	per := defaultPerJournal
	if raw := q.Get("per"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "per must be a positive integer")
			return
		}
		per = n
	}

	allowNews := false
	if raw := q.Get("news"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "news must be a boolean")
			return
		}
		allowNews = v
	}

	works := h.digestUsecase.Aggregate(r.Context(), usecase.Params{
		Journal:   name,
		Since:     since,
		Per:       per,
		AllowNews: allowNews,
		Keywords:  strings.TrimSpace(q.Get("keywords")),
	})
	if works == nil {
		works = []domain.Work{}
	}

	writeJSON(w, http.StatusOK, journalFeedResponse{
		Status:              http.StatusOK,
		Results:             works,
		RequestedPerJournal: per,
		Delivered:           len(works),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
