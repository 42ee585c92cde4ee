package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anasteisha/salon-booking/internal/prefs"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// PrefsHandler exposes the per-visitor preference bundle.
type PrefsHandler struct {
	store  prefs.Store
	logger *logging.Logger
	now    func() time.Time
}

// NewPrefsHandler creates the preferences handler.
func NewPrefsHandler(store prefs.Store, logger *logging.Logger) *PrefsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PrefsHandler{store: store, logger: logger.WithComponent("prefs"), now: time.Now}
}

// Get returns everything the pages need on load: the remembered client,
// theme, last search phone and whether to show the welcome dialog.
func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	visitor := chi.URLParam(r, "visitor")
	ctx := r.Context()

	profile, err := h.store.Profile(ctx, visitor)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	theme, err := h.store.Theme(ctx, visitor)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	searchPhone, err := h.store.SearchPhone(ctx, visitor)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	dismissedAt, err := h.store.WelcomeDismissedAt(ctx, visitor)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Client      *prefs.Profile `json:"client,omitempty"`
		Theme       string         `json:"theme"`
		SearchPhone string         `json:"search_phone,omitempty"`
		ShowWelcome bool           `json:"show_welcome"`
	}{
		Client:      profile,
		Theme:       theme,
		SearchPhone: searchPhone,
		ShowWelcome: prefs.ShouldShowWelcome(dismissedAt, h.now()),
	})
}

// SetTheme stores the visitor's theme choice.
func (h *PrefsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Theme != prefs.ThemeLight && req.Theme != prefs.ThemeDark {
		writeError(w, http.StatusUnprocessableEntity, "theme must be \"light\" or \"dark\"")
		return
	}
	if err := h.store.SaveTheme(r.Context(), chi.URLParam(r, "visitor"), req.Theme); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// DismissWelcome records that the welcome dialog was closed; it stays hidden
// for the next 30 days.
func (h *PrefsHandler) DismissWelcome(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkWelcomeDismissed(r.Context(), chi.URLParam(r, "visitor"), h.now()); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"show_welcome": false})
}

// Clear forgets everything stored for the visitor.
func (h *PrefsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context(), chi.URLParam(r, "visitor")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PrefsHandler) writeStoreError(w http.ResponseWriter, err error) {
	h.logger.Error("preference store failure", "error", err)
	writeError(w, http.StatusInternalServerError, "preference storage is unavailable")
}
