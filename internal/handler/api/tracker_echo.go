package api

import (
	"errors"
	"sort"

	models "github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/internal/usecase"
	"github.com/Vitek192/sola-sub000/pkg/cache"
	xhttp "github.com/Vitek192/sola-sub000/pkg/http"
	xlogger "github.com/Vitek192/sola-sub000/pkg/logger"
	"github.com/Vitek192/sola-sub000/pkg/queue"

	"github.com/labstack/echo/v4"
)

// TrackerEchoHandler exposes the engine's read and control surface.
type TrackerEchoHandler struct {
	logger  *xlogger.Logger
	tracker *usecase.Tracker
	scanner *usecase.Scanner
	jobs    *queue.RedisQueue
	cache   cache.Service
}

func NewTrackerEchoHandler(logger *xlogger.Logger, tracker *usecase.Tracker, scanner *usecase.Scanner, jobs *queue.RedisQueue, c cache.Service) *TrackerEchoHandler {
	return &TrackerEchoHandler{logger: logger, tracker: tracker, scanner: scanner, jobs: jobs, cache: c}
}

func (h *TrackerEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/tokens", h.Tokens)
	g.PUT("/tokens/:address/owned", h.MarkOwned)
	g.GET("/graveyard", h.Graveyard)
	g.GET("/alerts", h.Alerts)
	g.GET("/logs", h.Logs)
	g.GET("/status", h.Status)
	g.GET("/strategy", h.Strategy)
	g.PUT("/strategy", h.UpdateStrategy)
	g.POST("/scanner/start", h.StartScanner)
	g.POST("/scanner/stop", h.StopScanner)
	g.GET("/analysis/:address", h.Analysis)
	g.POST("/analysis/:address", h.RequestAnalysis)
}

func (h *TrackerEchoHandler) Tokens(c echo.Context) error {
	req := &models.TokensRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tokens := h.tracker.Tokens()
	if req.Owned {
		owned := tokens[:0]
		for _, t := range tokens {
			if t.IsOwned {
				owned = append(owned, t)
			}
		}
		tokens = owned
	}
	sortTokens(tokens, req.Sort)
	if len(tokens) > req.Limit {
		tokens = tokens[:req.Limit]
	}
	return xhttp.ListResponse(c, tokens, int64(len(tokens)))
}

// sortTokens reorders the response set. "tracked" keeps the engine's own
// order (owned first, then newest launch).
func sortTokens(tokens []models.Token, by string) {
	switch by {
	case "age":
		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].CreatedAt.Before(tokens[j].CreatedAt)
		})
	case "liquidity":
		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].Latest().Liquidity > tokens[j].Latest().Liquidity
		})
	case "mcap":
		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].Latest().MarketCap > tokens[j].Latest().MarketCap
		})
	}
}

func (h *TrackerEchoHandler) MarkOwned(c echo.Context) error {
	address := c.Param("address")
	var body struct {
		Owned bool `json:"owned"`
	}
	if err := c.Bind(&body); err != nil {
		return xhttp.BadRequestResponse(c, "invalid body")
	}
	if !h.tracker.MarkOwned(address, body.Owned) {
		return xhttp.NotFoundResponse(c, "token not tracked")
	}
	return xhttp.NoContentResponse(c)
}

func (h *TrackerEchoHandler) Graveyard(c echo.Context) error {
	req := &models.GraveyardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	dead := h.tracker.Graveyard()
	if len(dead) > req.Limit {
		dead = dead[:req.Limit]
	}
	return xhttp.ListResponse(c, dead, int64(len(dead)))
}

func (h *TrackerEchoHandler) Alerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	alerts := h.tracker.Alerts()
	if req.Severity != "" {
		filtered := alerts[:0]
		for _, a := range alerts {
			if string(a.Severity) == req.Severity {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}
	if len(alerts) > req.Limit {
		alerts = alerts[:req.Limit]
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}

func (h *TrackerEchoHandler) Logs(c echo.Context) error {
	req := &models.LogsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	logs := h.tracker.Logs()
	if len(logs) > req.Limit {
		logs = logs[:req.Limit]
	}
	return xhttp.ListResponse(c, logs, int64(len(logs)))
}

func (h *TrackerEchoHandler) Status(c echo.Context) error {
	tracked, buried, alerts := h.tracker.Counts()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"scanning":  h.scanner.Enabled(),
		"interval":  h.scanner.Interval().String(),
		"tracked":   tracked,
		"graveyard": buried,
		"alerts":    alerts,
		"error":     h.tracker.LastError(),
	})
}

func (h *TrackerEchoHandler) Strategy(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.tracker.Strategy())
}

func (h *TrackerEchoHandler) UpdateStrategy(c echo.Context) error {
	req := &models.StrategyUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	cfg := req.Config()
	h.tracker.SetStrategy(cfg)
	h.logger.Info("strategy replaced via API",
		xlogger.Int("stages", len(cfg.Stages)),
		xlogger.Int("correlations", len(cfg.Correlations)))
	return xhttp.SuccessResponse(c, cfg)
}

func (h *TrackerEchoHandler) StartScanner(c echo.Context) error {
	h.scanner.Enable()
	h.tracker.AddLog(models.LogInfo, "Scanner started")
	return xhttp.SuccessResponse(c, map[string]bool{"scanning": true})
}

func (h *TrackerEchoHandler) StopScanner(c echo.Context) error {
	h.scanner.Disable()
	h.tracker.AddLog(models.LogInfo, "Scanner stopped")
	return xhttp.SuccessResponse(c, map[string]bool{"scanning": false})
}

func (h *TrackerEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	var result models.TokenAnalysis
	err := h.cache.Get(c.Request().Context(), usecase.AnalysisCacheKey(req.Address), &result)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return xhttp.NotFoundResponse(c, "no analysis available")
		}
		h.logger.Error("analysis cache read failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *TrackerEchoHandler) RequestAnalysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if _, ok := h.tracker.FindToken(req.Address); !ok {
		return xhttp.NotFoundResponse(c, "token not tracked")
	}
	if err := h.jobs.Enqueue(c.Request().Context(), usecase.AnalysisJobType, usecase.AnalysisPayload{Address: req.Address}); err != nil {
		h.logger.Error("analysis enqueue failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "queued", "address": req.Address})
}
