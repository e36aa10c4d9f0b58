package server

import (
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"DCADashboard/internal/model"
	"DCADashboard/internal/strategy"
)

// Source provides the latest collected data and the active parameters.
type Source interface {
	Latest() *model.Snapshot
	Params() strategy.Params
}

// LatencyRecorder observes evaluation timings.
type LatencyRecorder interface {
	RecordLatency(op string, seconds float64)
}

// evalRequest overrides the active parameters for one request. Zero keeps
// the active value.
type evalRequest struct {
	Threshold float64 `query:"threshold" validate:"gte=0,lte=100"`
	Ceiling   float64 `query:"ceiling" validate:"gte=0,lte=100"`
}

type assetRequest struct {
	Name      string  `param:"name" validate:"required"`
	Threshold float64 `query:"threshold" validate:"gte=0,lte=100"`
}

type alertsRequest struct {
	Threshold float64 `query:"threshold" validate:"gte=0,lte=100"`
	Kind      string  `query:"kind" default:"all" validate:"oneof=all arbitrage rebalance"`
}

type alertsResponse struct {
	Arbitrage []model.ArbitrageTier  `json:"arbitrage,omitempty"`
	Rebalance []model.RebalanceAlert `json:"rebalance,omitempty"`
}

// DashboardHandler serves evaluations of the latest snapshot.
type DashboardHandler struct {
	source  Source
	metrics LatencyRecorder
}

// NewDashboardHandler creates the handler; rec may be nil.
func NewDashboardHandler(source Source, rec LatencyRecorder) *DashboardHandler {
	return &DashboardHandler{source: source, metrics: rec}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/assets/:name", h.Asset)
	g.GET("/alerts", h.Alerts)
	g.GET("/macro", h.Macro)
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	req := &evalRequest{}
	if verr := readAndValidateRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}
	eval, ok := h.evaluate(req.Threshold, req.Ceiling)
	if !ok {
		return unavailableResponse(c)
	}
	return successResponse(c, eval)
}

func (h *DashboardHandler) Asset(c echo.Context) error {
	req := &assetRequest{}
	if verr := readAndValidateRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}
	// Echo matches on the raw path, so escaped names such as S%26P500 arrive undecoded.
	name, err := url.PathUnescape(req.Name)
	if err != nil {
		return badRequestResponse(c, []ValidationError{{Code: "ERR_ESCAPE", Field: "name", Message: err.Error()}})
	}
	eval, ok := h.evaluate(req.Threshold, 0)
	if !ok {
		return unavailableResponse(c)
	}
	rep, found := eval.Asset(name)
	if !found {
		return notFoundResponse(c, "unknown asset: "+name)
	}
	return successResponse(c, rep)
}

func (h *DashboardHandler) Alerts(c echo.Context) error {
	req := &alertsRequest{}
	if verr := readAndValidateRequest(c, req); verr != nil {
		return badRequestResponse(c, verr)
	}
	eval, ok := h.evaluate(req.Threshold, 0)
	if !ok {
		return unavailableResponse(c)
	}
	res := alertsResponse{}
	if req.Kind != "rebalance" {
		res.Arbitrage = eval.Arbitrage
	}
	if req.Kind != "arbitrage" {
		res.Rebalance = eval.Rebalance
	}
	return successResponse(c, res)
}

func (h *DashboardHandler) Macro(c echo.Context) error {
	eval, ok := h.evaluate(0, 0)
	if !ok {
		return unavailableResponse(c)
	}
	return successResponse(c, eval.Macro)
}

func (h *DashboardHandler) evaluate(thresholdPct, ceiling float64) (*model.Evaluation, bool) {
	snap := h.source.Latest()
	if snap == nil {
		return nil, false
	}
	p := h.source.Params()
	if thresholdPct > 0 {
		p.Threshold = strategy.ThresholdFromPercent(thresholdPct)
	}
	if ceiling > 0 {
		p.Ceiling = ceiling
	}

	start := time.Now()
	eval := strategy.Evaluate(snap, p)
	if h.metrics != nil {
		h.metrics.RecordLatency("api_evaluate", time.Since(start).Seconds())
	}
	return eval, true
}
