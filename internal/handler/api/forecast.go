package api

import (
	"net/http"

	"ForecastGate/internal/domain/models"
	fmetrics "ForecastGate/internal/service/metrics"
	"ForecastGate/internal/usecase"
	xhttp "ForecastGate/pkg/http"
	applogger "ForecastGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

const successorLink = `</api/forecast/ohlc>; rel="successor-version"`

// ForecastHandler serves the forecast, propagation, signup and health endpoints.
type ForecastHandler struct {
	log *applogger.Logger
	uc  *usecase.ForecastUseCase
}

func NewForecastHandler(log *applogger.Logger, uc *usecase.ForecastUseCase) *ForecastHandler {
	return &ForecastHandler{log: log.With("api"), uc: uc}
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.POST("/forecast/ohlc", h.ForecastOHLC)
	g.POST("/forecast/univariate", h.ForecastUnivariate)
	g.POST("/analysis/propagation", h.CheckPropagation)
	g.POST("/predict/directional_change", h.DirectionalChange)
	g.POST("/signup", h.Signup)
}

func (h *ForecastHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Health())
}

func (h *ForecastHandler) ForecastOHLC(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.Ready(ctx); err != nil {
		return h.fail(c, usecase.EndpointOHLC, err)
	}

	req := &models.OHLCForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.invalid(c, usecase.EndpointOHLC, verr)
	}

	res, err := h.uc.ForecastOHLC(ctx, req)
	if err != nil {
		return h.fail(c, usecase.EndpointOHLC, err)
	}
	fmetrics.ObserveRequest(usecase.EndpointOHLC, fmetrics.OutcomeOK)
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastHandler) ForecastUnivariate(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.Ready(ctx); err != nil {
		return h.fail(c, usecase.EndpointUnivariate, err)
	}

	req := &models.UnivariateForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.invalid(c, usecase.EndpointUnivariate, verr)
	}

	res, err := h.uc.ForecastUnivariate(ctx, req)
	if err != nil {
		return h.fail(c, usecase.EndpointUnivariate, err)
	}
	fmetrics.ObserveRequest(usecase.EndpointUnivariate, fmetrics.OutcomeOK)
	return xhttp.SuccessResponse(c, res)
}

// DirectionalChange is the deprecated boolean view of the OHLC forecast.
func (h *ForecastHandler) DirectionalChange(c echo.Context) error {
	hdr := c.Response().Header()
	hdr.Set("Deprecation", "true")
	hdr.Set("Link", successorLink)
	h.log.Warn("deprecated endpoint called, use /api/forecast/ohlc instead",
		applogger.String("path", c.Path()),
		applogger.String("remote_ip", c.RealIP()),
	)

	ctx := c.Request().Context()
	if err := h.uc.Ready(ctx); err != nil {
		return h.fail(c, usecase.EndpointLegacy, err)
	}

	req := &models.OHLCForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.invalid(c, usecase.EndpointLegacy, verr)
	}

	res, err := h.uc.DirectionalChange(ctx, req)
	if err != nil {
		return h.fail(c, usecase.EndpointLegacy, err)
	}
	fmetrics.ObserveRequest(usecase.EndpointLegacy, fmetrics.OutcomeOK)
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastHandler) CheckPropagation(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.uc.Ready(ctx); err != nil {
		return h.fail(c, usecase.EndpointPropagation, err)
	}

	req := &models.PropagationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.invalid(c, usecase.EndpointPropagation, verr)
	}

	res, err := h.uc.CheckPropagation(ctx, req)
	if err != nil {
		return h.fail(c, usecase.EndpointPropagation, err)
	}
	fmetrics.ObserveRequest(usecase.EndpointPropagation, fmetrics.OutcomeOK)
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastHandler) Signup(c echo.Context) error {
	req := &models.SignupRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.invalid(c, usecase.EndpointSignup, verr)
	}

	res, err := h.uc.Signup(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, usecase.EndpointSignup, err)
	}
	fmetrics.ObserveRequest(usecase.EndpointSignup, fmetrics.OutcomeOK)
	return xhttp.SuccessResponse(c, res)
}

// fail is the single place a request failure is logged.
func (h *ForecastHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := translateError(err)
	h.log.Error("request failed",
		applogger.String("endpoint", endpoint),
		applogger.String("code", appErr.Code),
		applogger.Int("status", appErr.Status),
		applogger.Error(err),
		applogger.Stack(),
	)
	fmetrics.ObserveRequest(endpoint, outcome(appErr.Status))
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *ForecastHandler) invalid(c echo.Context, endpoint string, errs []xhttp.ValidationError) error {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	h.log.Error("invalid request body",
		applogger.String("endpoint", endpoint),
		applogger.Strings("fields", fields),
		applogger.Stack(),
	)
	fmetrics.ObserveRequest(endpoint, outcome(http.StatusBadRequest))
	return xhttp.BadRequestResponse(c, errs)
}
