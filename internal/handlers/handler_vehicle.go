package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// vehicleHandler handles vehicle reads and possession transitions.
type vehicleHandler struct {
	vehicleService portssvc.VehicleSvcFacade
}

type driverAction func(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error)

// RegisterVehicleRoutes registers vehicle and driver routes.
func RegisterVehicleRoutes(rg *gin.RouterGroup, vehicleService portssvc.VehicleSvcFacade) {
	h := &vehicleHandler{vehicleService: vehicleService}

	drivers := middleware.RequireRole(middleware.RoleDriver, middleware.RoleAdmin)
	admin := middleware.RequireRole(middleware.RoleAdmin)

	vehicles := rg.Group("/vehicles")
	{
		vehicles.GET("", h.listVehicles)
		vehicles.GET("/:vehicleID", h.getVehicle)
		vehicles.POST("/:vehicleID/reserve", drivers, h.driverTransition("reserve", true, vehicleService.Reserve))
		vehicles.POST("/:vehicleID/begin-trip", drivers, h.driverTransition("begin trip", true, vehicleService.BeginTrip))
		vehicles.POST("/:vehicleID/release", drivers, h.driverTransition("release", false, vehicleService.Release))
		vehicles.POST("/:vehicleID/end-trip", drivers, h.driverTransition("end trip", true, vehicleService.EndTrip))
		vehicles.POST("/:vehicleID/unavailable", admin, h.adminTransition("mark unavailable", vehicleService.SetUnavailable))
		vehicles.POST("/:vehicleID/available", admin, h.adminTransition("mark available", vehicleService.SetAvailable))
	}

	rg.POST("/drivers/:driverID/release", drivers, h.releaseByDriver)
}

// listVehicles godoc
// @Summary List vehicles
// @Tags vehicles
// @Produce  json
// @Param   status query string false "Filter by status" Enums(AVAILABLE, RESERVED, IN_USE, UNAVAILABLE)
// @Success 200 {object} dto.ListVehiclesResponse
// @Failure 400 {object} errorResponse "Unknown status"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to list vehicles"
// @Security BearerAuth
// @Router /vehicles [get]
func (h *vehicleHandler) listVehicles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var status *domain.VehicleStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.VehicleStatus(raw)
		status = &s
	}

	vehicles, err := h.vehicleService.ListVehicles(c.Request.Context(), status)
	if err != nil {
		respondError(c, logger, err, "Failed to list vehicles")
		return
	}
	c.JSON(http.StatusOK, dto.ToListVehiclesResponse(vehicles))
}

// getVehicle godoc
// @Summary Get a vehicle
// @Tags vehicles
// @Produce  json
// @Param   vehicleID path string true "Vehicle ID"
// @Success 200 {object} dto.VehicleResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Vehicle not found"
// @Failure 500 {object} errorResponse "Failed to retrieve vehicle"
// @Security BearerAuth
// @Router /vehicles/{vehicleID} [get]
func (h *vehicleHandler) getVehicle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	v, err := h.vehicleService.GetVehicle(c.Request.Context(), c.Param("vehicleID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve vehicle")
		return
	}
	c.JSON(http.StatusOK, dto.ToVehicleResponse(v))
}

// driverTransition godoc
// @Summary Reserve, begin a trip, release or end a trip
// @Description Drivers act as themselves; admins name the driver in the body. Release by an admin without a driver skips the holder check.
// @Tags vehicles
// @Accept  json
// @Produce  json
// @Param   vehicleID path string true "Vehicle ID"
// @Param   action body dto.VehicleActionRequest false "Acting driver"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} errorResponse "Missing driver"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Acting for another driver"
// @Failure 404 {object} errorResponse "Vehicle not found"
// @Failure 409 {object} errorResponse "Vehicle held by another driver, or driver already holds a vehicle"
// @Security BearerAuth
// @Router /vehicles/{vehicleID}/reserve [post]
// @Router /vehicles/{vehicleID}/begin-trip [post]
// @Router /vehicles/{vehicleID}/release [post]
// @Router /vehicles/{vehicleID}/end-trip [post]
func (h *vehicleHandler) driverTransition(name string, driverRequired bool, action driverAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		vehicleID := c.Param("vehicleID")

		// The body is optional; an empty one, chunked or not, binds to io.EOF.
		var req dto.VehicleActionRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBindError(c, logger, name+" request", err)
			return
		}

		driverID, ok := resolveDriver(c, req.DriverID)
		if !ok {
			return
		}
		if driverRequired && driverID == "" {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "driverID is required", Kind: "VALIDATION"})
			return
		}

		logger = logger.With(slog.String("vehicle_id", vehicleID), slog.String("driver_id", driverID))
		v, err := action(c.Request.Context(), vehicleID, driverID)
		if err != nil {
			respondError(c, logger, err, "Failed to "+name)
			return
		}
		c.JSON(http.StatusOK, dto.ToVehicleResponse(v))
	}
}

// adminTransition godoc
// @Summary Take a vehicle out of or back into service
// @Tags vehicles
// @Produce  json
// @Param   vehicleID path string true "Vehicle ID"
// @Success 200 {object} dto.VehicleResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Forbidden"
// @Failure 404 {object} errorResponse "Vehicle not found"
// @Failure 409 {object} errorResponse "Vehicle is held by a driver"
// @Security BearerAuth
// @Router /vehicles/{vehicleID}/unavailable [post]
// @Router /vehicles/{vehicleID}/available [post]
func (h *vehicleHandler) adminTransition(name string, action driverAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		actorID, _ := middleware.GetUserIDFromContext(c)

		v, err := action(c.Request.Context(), c.Param("vehicleID"), actorID)
		if err != nil {
			respondError(c, logger, err, "Failed to "+name)
			return
		}
		c.JSON(http.StatusOK, dto.ToVehicleResponse(v))
	}
}

// releaseByDriver godoc
// @Summary Release whatever vehicle a driver holds
// @Description Called on driver logout. Succeeds with released=false when nothing is held.
// @Tags vehicles
// @Produce  json
// @Param   driverID path string true "Driver ID"
// @Success 200 {object} dto.ReleaseByDriverResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Acting for another driver"
// @Failure 500 {object} errorResponse "Failed to release vehicle"
// @Security BearerAuth
// @Router /drivers/{driverID}/release [post]
func (h *vehicleHandler) releaseByDriver(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	driverID, ok := resolveDriver(c, c.Param("driverID"))
	if !ok {
		return
	}

	v, err := h.vehicleService.ReleaseByDriver(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, logger.With(slog.String("driver_id", driverID)), err, "Failed to release vehicle")
		return
	}

	resp := dto.ReleaseByDriverResponse{Released: v != nil}
	if v != nil {
		vr := dto.ToVehicleResponse(v)
		resp.Vehicle = &vr
	}
	c.JSON(http.StatusOK, resp)
}

// resolveDriver returns the driver a request acts for. Drivers may only act as themselves;
// admins act for whichever driver they name. It writes the response when it returns false.
func resolveDriver(c *gin.Context, requested string) (string, bool) {
	if !middleware.HasRole(c, middleware.RoleDriver) {
		return requested, true
	}

	subject, _ := middleware.GetUserIDFromContext(c)
	if requested != "" && requested != subject {
		err := fmt.Errorf("%w: driver %s acted for %s", apperrors.ErrForbidden, subject, requested)
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Drivers may only act for themselves")
		return "", false
	}
	return subject, true
}
