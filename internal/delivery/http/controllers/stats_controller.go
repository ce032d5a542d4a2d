package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// HitRequest is the request body for POST /hit.
type HitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// Validate implements helpers.Validator.
func (r *HitRequest) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.App) == "" {
		problems = append(problems, "app is required")
	}
	if strings.TrimSpace(r.URI) == "" {
		problems = append(problems, "uri is required")
	}
	if strings.TrimSpace(r.IP) == "" {
		problems = append(problems, "ip is required")
	}
	if _, err := domain.ParseDateTime(r.Timestamp); err != nil {
		problems = append(problems, "timestamp must use the format "+domain.DateTimeLayout)
	}
	return problems
}

// RecordHit godoc
// @Summary Record a visit
// @Tags stats
// @Accept json
// @Produce json
// @Param body body controllers.HitRequest true "Visit to record"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /hit [post]
func (c *StatsController) RecordHit(w http.ResponseWriter, r *http.Request) {
	var req HitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	hit := &domain.Hit{
		App:       req.App,
		URI:       req.URI,
		IP:        req.IP,
		Timestamp: req.Timestamp,
	}
	if err := c.Service.CreateHit(r.Context(), hit); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, hit)
}

// GetStats godoc
// @Summary Query aggregate view counts
// @Description Returns hit counts per URI over [start, end], ordered by count descending. With unique=true hits are deduplicated by IP.
// @Tags stats
// @Produce json
// @Param start query string true "Window start (yyyy-MM-dd HH:mm:ss)"
// @Param end query string true "Window end (yyyy-MM-dd HH:mm:ss)"
// @Param uris query []string false "URIs to include; omit for all"
// @Param unique query bool false "Deduplicate hits by IP"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /stats [get]
func (c *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	uris := q["uris"]
	unique := q.Get("unique") == "true"
	stats, err := c.Service.GetStats(r.Context(), q.Get("start"), q.Get("end"), uris, unique)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

func (c *StatsController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
