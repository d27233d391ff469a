package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"housecleaning-backend/config"
	"housecleaning-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router   *gin.Engine
	auth     *services.AuthService
	bookings *services.BookingService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := zerolog.Nop()
	authSvc := services.NewAuthService(db, bcrypt.MinCost, &log)
	bookingSvc := services.NewBookingService(db, nil, &log)
	exportSvc := services.NewExportService(bookingSvc, &log)

	ac := NewAuthController(authSvc)
	bc := NewBookingController(bookingSvc, exportSvc)

	r := gin.New()
	r.POST("/api/auth/login", ac.Login)
	r.GET("/api/auth/getallpasswords", ac.GetPasswords)
	r.POST("/api/auth/passwords", ac.AddPassword)
	r.DELETE("/api/auth/passwords/:id", ac.DeletePassword)
	r.POST("/bookings", bc.CreateBooking)
	r.GET("/bookings", bc.GetBookings)
	r.GET("/bookings/export", bc.ExportBookings)
	r.GET("/bookings/number/:bookingNumber", bc.GetBookingByNumber)
	r.PUT("/bookings/:id/status", bc.UpdateBookingStatus)
	r.GET("/bookings/:id/history", bc.GetBookingHistory)
	r.DELETE("/bookings/:id", bc.DeleteBooking)

	return &testEnv{router: r, auth: authSvc, bookings: bookingSvc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope decodes the response body, leaving data raw for the caller.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
