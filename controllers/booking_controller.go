package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"housecleaning-backend/models"
	"housecleaning-backend/services"
	"housecleaning-backend/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CreateBookingRequest carries the customer-facing booking fields. Status and
// id are not accepted from callers.
type CreateBookingRequest struct {
	BookingNumber string `json:"bookingNumber" binding:"max=20"`
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,max=100"`
	Phone         string `json:"phone" binding:"required,max=20"`
	Address       string `json:"address" binding:"required,max=255"`
	Service       string `json:"service" binding:"required,max=100"`
	Date          string `json:"date" binding:"required,max=255"`
	Time          string `json:"time" binding:"required,max=255"`
}

func (r CreateBookingRequest) toModel() *models.Booking {
	return &models.Booking{
		BookingNumber: r.BookingNumber,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		Service:       r.Service,
		Date:          r.Date,
		Time:          r.Time,
	}
}

type BookingController struct {
	BookingSvc *services.BookingService
	ExportSvc  *services.ExportService
}

func NewBookingController(svc *services.BookingService, export *services.ExportService) *BookingController {
	return &BookingController{BookingSvc: svc, ExportSvc: export}
}

// CreateBooking (POST /bookings)
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking payload: "+err.Error())
		return
	}

	created, err := ctrl.BookingSvc.CreateBooking(c.Request.Context(), req.toModel())
	if errors.Is(err, services.ErrDuplicateBookingNumber) {
		utils.JSONError(c, http.StatusConflict, fmt.Sprintf("Booking number '%s' already exists", req.BookingNumber))
		return
	}
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, created, "Booking created successfully")
}

// GetBookings (GET /bookings)
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.ListBookings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings, "Bookings fetched successfully")
}

// UpdateBookingStatus (PUT /bookings/:id/status?status=Approved)
func (ctrl *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	updated, err := ctrl.BookingSvc.UpdateBookingStatus(c.Request.Context(), id, c.Query("status"))
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
		return
	case errors.Is(err, services.ErrInvalidStatus):
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking status")
		return
	case err != nil:
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated, "Booking status updated")
}

// DeleteBooking (DELETE /bookings/:id)
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := ctrl.BookingSvc.DeleteBooking(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	if !deleted {
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil, "Booking deleted successfully")
}

// GetBookingByNumber (GET /bookings/number/:bookingNumber)
func (ctrl *BookingController) GetBookingByNumber(c *gin.Context) {
	booking, err := ctrl.BookingSvc.GetBookingByNumber(c.Request.Context(), c.Param("bookingNumber"))
	if errors.Is(err, services.ErrBookingNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking, "Booking found")
}

// GetBookingHistory (GET /bookings/:id/history)
func (ctrl *BookingController) GetBookingHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	events, err := ctrl.BookingSvc.GetBookingHistory(c.Request.Context(), id)
	if errors.Is(err, services.ErrBookingNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, events, "Booking history fetched")
}

// ExportBookings (GET /bookings/export)
func (ctrl *BookingController) ExportBookings(c *gin.Context) {
	f, err := ctrl.ExportSvc.ExportBookings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
