package routes

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"housecleaning-backend/config"
	"housecleaning-backend/controllers"
	"housecleaning-backend/middleware"
	"housecleaning-backend/utils"
)

const authPrefix = "/api/auth"

// originAllowed picks the allow-list by path: the auth routes have their own,
// everything else uses the booking list.
func originAllowed(cfg config.CORSConfig) func(c *gin.Context, origin string) bool {
	return func(c *gin.Context, origin string) bool {
		if strings.HasPrefix(c.Request.URL.Path, authPrefix) {
			return slices.Contains(cfg.AuthOrigins, origin)
		}
		return slices.Contains(cfg.BookingOrigins, origin)
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// SetupRouter builds the engine and registers every route.
func SetupRouter(
	ac *controllers.AuthController,
	bc *controllers.BookingController,
	db *gorm.DB,
	corsCfg config.CORSConfig,
	log *zerolog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		utils.JSONAbort(c, http.StatusInternalServerError, utils.MessageInternalError)
	}))

	// Registered globally so preflight requests for unknown routes are
	// answered too.
	r.Use(cors.New(cors.Config{
		AllowOriginWithContextFunc: originAllowed(corsCfg),
		AllowMethods:               []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:               []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:              []string{"Content-Length", "Content-Disposition"},
		AllowCredentials:           true,
		MaxAge:                     12 * time.Hour,
	}))

	r.GET("/health", healthHandler(db))

	auth := r.Group(authPrefix)
	{
		auth.POST("/login", ac.Login)
		auth.GET("/getallpasswords", ac.GetPasswords)
		auth.POST("/passwords", ac.AddPassword)
		auth.DELETE("/passwords/:id", ac.DeletePassword)
	}

	bookings := r.Group("/bookings")
	{
		bookings.POST("", bc.CreateBooking)
		bookings.GET("", bc.GetBookings)

		// static segments before /:id
		bookings.GET("/export", bc.ExportBookings)
		bookings.GET("/number/:bookingNumber", bc.GetBookingByNumber)

		bookings.PUT("/:id/status", bc.UpdateBookingStatus)
		bookings.GET("/:id/history", bc.GetBookingHistory)
		bookings.DELETE("/:id", bc.DeleteBooking)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "Route not found")
	})

	return r
}
