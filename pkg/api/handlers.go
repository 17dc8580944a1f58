package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"github.com/azybler/map_distance/pkg/graph"
	"github.com/azybler/map_distance/pkg/logger"
	"github.com/azybler/map_distance/pkg/routing"
)

const maxBodyBytes = 1024

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router   routing.Router
	stats    StatsResponse
	log      *zap.Logger
	validate *validator.Validate
	trans    ut.Translator
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router routing.Router, stats StatsResponse, log *zap.Logger) *Handlers {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &Handlers{
		router:   router,
		stats:    stats,
		log:      logger.OrNop(log),
		validate: validate,
		trans:    trans,
	}
}

// HandleDistance handles GET /api/v1/distance?from=<id>&to=<id>.
func (h *Handlers) HandleDistance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var (
		req distanceRequest
		err error
	)
	query := r.URL.Query()

	req.From, err = strconv.ParseInt(query.Get("from"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from")
		return
	}
	req.To, err = strconv.ParseInt(query.Get("to"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to")
		return
	}

	start := time.Now()
	d, err := h.router.Distance(r.Context(), req.From, req.To)
	queryDuration.WithLabelValues("distance").Observe(time.Since(start).Seconds())
	if err != nil {
		queriesTotal.WithLabelValues("distance", "error").Inc()
		h.writeQueryError(w, r, err)
		return
	}

	resp := DistanceResponse{From: req.From, To: req.To}
	if d != routing.Infinity {
		meters := uint32(d)
		resp.DistanceMeters = &meters
		resp.Reachable = true
		queriesTotal.WithLabelValues("distance", "reachable").Inc()
	} else {
		queriesTotal.WithLabelValues("distance", "unreachable").Inc()
	}

	h.log.Debug("distance query",
		zap.Int64("from", req.From), zap.Int64("to", req.To),
		zap.Uint32("dist", uint32(d)), zap.Duration("elapsed", time.Since(start)))

	writeJSON(w, http.StatusOK, resp)
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		field, details := h.translateError(err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_coordinates",
			Field:   field,
			Details: details,
		})
		return
	}

	start := time.Now()
	result, err := h.router.Route(r.Context(),
		routing.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng},
		routing.LatLng{Lat: req.End.Lat, Lng: req.End.Lng})
	queryDuration.WithLabelValues("route").Observe(time.Since(start).Seconds())
	if err != nil {
		queriesTotal.WithLabelValues("route", "error").Inc()
		h.writeQueryError(w, r, err)
		return
	}
	queriesTotal.WithLabelValues("route", "reachable").Inc()

	coords := make([][]float64, len(result.Geometry))
	for i, ll := range result.Geometry {
		coords[i] = []float64{ll.Lat, ll.Lng}
	}

	resp := RouteResponse{
		DistanceMeters: uint32(result.DistanceMeters),
		NumNodes:       len(result.Nodes),
		Polyline:       string(polyline.EncodeCoords(coords)),
	}
	if n := len(result.Geometry); n > 0 {
		first, last := result.Geometry[0], result.Geometry[n-1]
		resp.Start = SnappedJSON{Lat: first.Lat, Lng: first.Lng, SnapDistanceMeters: result.Start.Dist}
		resp.End = SnappedJSON{Lat: last.Lat, Lng: last.Lng, SnapDistanceMeters: result.End.Dist}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, h.stats)
}

// writeQueryError maps router errors to status codes.
func (h *Handlers) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, graph.ErrUnknownNode):
		writeError(w, http.StatusNotFound, "unknown_node", "")
	case errors.Is(err, routing.ErrPointTooFar):
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "")
	case errors.Is(err, routing.ErrNoRoute):
		writeError(w, http.StatusNotFound, "no_route_found", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		h.log.Error("query failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

// translateError returns the top level JSON field of the first failure
// and the English message of every failure.
func (h *Handlers) translateError(err error) (string, []string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "", []string{err.Error()}
	}
	var field string
	details := make([]string, 0, len(verrs))
	for i, fe := range verrs {
		if i == 0 {
			// Namespace is "RouteRequest.start.lat".
			parts := strings.Split(fe.Namespace(), ".")
			if len(parts) > 1 {
				field = parts[1]
			}
		}
		details = append(details, fe.Translate(h.trans))
	}
	return field, details
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
