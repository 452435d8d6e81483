package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/shopspring/decimal"

	"medtrack/m/domain"
	"medtrack/m/internal/repository"
	"medtrack/m/internal/validation"
)

// Options carries the handler settings that come from configuration.
type Options struct {
	StaticDir         string
	AllowedOrigins    []string
	LowStockThreshold int64
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	inventory     repository.Inventory
	prescriptions repository.Prescriptions
	log           zerolog.Logger
	opts          Options
	now           func() time.Time
}

// New constructs a Handler.
func New(inventory repository.Inventory, prescriptions repository.Prescriptions, log zerolog.Logger, opts Options) *Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Handler{
		inventory:     inventory,
		prescriptions: prescriptions,
		log:           log,
		opts:          opts,
		now:           time.Now,
	}
}

// Router wires up the HTTP API and the static front end.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(h.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Get("/getDrugs", h.getDrugs)
	r.Post("/addDrug", h.addDrug)
	r.Get("/getStats", h.getStats)

	r.Post("/issuePrescription", h.issuePrescription)
	r.Get("/getPrescriptions", h.getPrescriptions)
	r.Get("/getPrescription/{id}", h.getPrescription)

	r.Get("/*", h.static)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Inventory handlers

func (h *Handler) getDrugs(w http.ResponseWriter, r *http.Request) {
	drugs, err := h.inventory.ListDrugs(r.Context())
	if err != nil {
		h.respondMessage(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"drugs": drugs})
}

func (h *Handler) addDrug(w http.ResponseWriter, r *http.Request) {
	var req addDrugRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	in, err := req.toDomain()
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	drug, err := h.inventory.AddDrug(r.Context(), in)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Drug added to inventory successfully",
		"success": true,
		"drug":    drug,
	})
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventory.Stats(r.Context(), domain.NewDate(h.now()), h.opts.LowStockThreshold)
	if err != nil {
		h.respondMessage(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

// Prescription handlers

type prescriptionData struct {
	PrescriptionID int64           `json:"prescriptionId"`
	PatientID      string          `json:"patientId"`
	DrugName       string          `json:"drugName"`
	Dosage         string          `json:"dosage"`
	IssueDate      string          `json:"issueDate"`
	Price          decimal.Decimal `json:"price"`
}

func (h *Handler) issuePrescription(w http.ResponseWriter, r *http.Request) {
	var req issuePrescriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	in, err := req.toDomain()
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	p, err := h.prescriptions.Issue(r.Context(), in)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Prescription issued successfully for " + p.DrugName,
		"success": true,
		"prescriptionData": prescriptionData{
			PrescriptionID: p.ID,
			PatientID:      p.PatientID,
			DrugName:       p.DrugName,
			Dosage:         p.Dosage,
			IssueDate:      p.IssueDate.String(),
			Price:          p.DrugPrice,
		},
	})
}

func (h *Handler) getPrescriptions(w http.ResponseWriter, r *http.Request) {
	items, err := h.prescriptions.ListPrescriptions(r.Context())
	if err != nil {
		h.respondMessage(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"prescriptions": items})
}

func (h *Handler) getPrescription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid prescription id"})
		return
	}
	p, err := h.prescriptions.GetPrescription(r.Context(), id)
	if errors.Is(err, repository.ErrPrescriptionNotFound) {
		respondJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
		return
	}
	if err != nil {
		h.respondMessage(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "prescription": p})
}
