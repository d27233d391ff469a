package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"housecleaning-backend/metrics"
	"housecleaning-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	bookingNumberPrefix  = "SPK-"
	bookingNumberRetries = 5
)

// GenerateBookingNumber returns "SPK-" followed by the first eight characters
// of a random UUID, upper-cased.
func GenerateBookingNumber() string {
	return bookingNumberPrefix + strings.ToUpper(uuid.NewString()[:8])
}

type BookingService struct {
	db     *gorm.DB
	cache  BookingCache
	logger *zerolog.Logger

	newBookingNumber func() string
}

// NewBookingService wires the booking service. cache may be nil.
func NewBookingService(db *gorm.DB, cache BookingCache, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		db:               db,
		cache:            cache,
		logger:           logger,
		newBookingNumber: GenerateBookingNumber,
	}
}

func newBookingEvent(b *models.Booking, eventType string) (*models.BookingEvent, error) {
	snapshot, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot booking: %w", err)
	}
	return &models.BookingEvent{
		BookingID: b.ID,
		Type:      eventType,
		Status:    b.Status,
		Snapshot:  datatypes.JSON(snapshot),
	}, nil
}

// CreateBooking stores a new booking in the Pending state. A blank booking
// number is generated, retrying on collision; a caller-supplied number that
// is already taken fails with ErrDuplicateBookingNumber.
func (s *BookingService) CreateBooking(ctx context.Context, input *models.Booking) (*models.Booking, error) {
	booking := *input
	booking.ID = 0
	booking.Status = models.StatusPending

	generated := strings.TrimSpace(booking.BookingNumber) == ""

	var createErr error
	for attempt := 0; attempt < bookingNumberRetries; attempt++ {
		if generated {
			booking.BookingNumber = s.newBookingNumber()
		}

		createErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&booking).Error; err != nil {
				return err
			}
			event, err := newBookingEvent(&booking, models.BookingEventCreated)
			if err != nil {
				return err
			}
			return tx.Create(event).Error
		})
		if createErr == nil {
			break
		}

		booking.ID = 0
		if !isUniqueViolation(createErr) {
			return nil, fmt.Errorf("failed to create booking: %w", createErr)
		}
		if !generated {
			return nil, ErrDuplicateBookingNumber
		}
		s.logger.Warn().
			Str("booking_number", booking.BookingNumber).
			Int("attempt", attempt+1).
			Msg("booking number collision, retrying")
	}
	if createErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrBookingNumberExhausted, bookingNumberRetries, createErr)
	}

	metrics.IncBookingCreated()
	s.logger.Info().Str("booking_number", booking.BookingNumber).Uint("booking_id", booking.ID).Msg("booking created")
	return &booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := s.db.WithContext(ctx).Order("id").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) findByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking %d: %w", id, err)
	}
	return &booking, nil
}

// UpdateBookingStatus moves a booking to the status named by statusText.
// Any status may follow any other. The id is resolved before the text is
// parsed, so an unknown id reports ErrBookingNotFound whatever the text.
//
// The cache entry is invalidated before and after the transaction. A failure
// before leaves the booking untouched; a failure after is returned even though
// the change is committed.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id uint, statusText string) (*models.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, ok := models.ParseBookingStatus(statusText)
	if !ok {
		s.logger.Warn().Str("status", statusText).Uint("booking_id", id).Msg("invalid status value provided")
		return nil, ErrInvalidStatus
	}

	if err := s.invalidate(ctx, booking.BookingNumber); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("status", status).Error; err != nil {
			return err
		}
		booking.Status = status

		event, err := newBookingEvent(booking, models.BookingEventStatusChanged)
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update booking %d: %w", id, err)
	}

	metrics.IncStatusUpdate(string(status))
	s.logger.Info().Str("booking_number", booking.BookingNumber).Str("status", string(status)).Msg("booking status updated")

	// A lookup that read the old row mid-transaction may have filled the cache.
	if err := s.invalidate(ctx, booking.BookingNumber); err != nil {
		return nil, err
	}
	return booking, nil
}

// DeleteBooking removes the booking and its history. It returns false when
// no booking has the given id. Cache invalidation follows the same rules as
// UpdateBookingStatus.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint) (bool, error) {
	booking, err := s.findByID(ctx, id)
	if errors.Is(err, ErrBookingNotFound) {
		s.logger.Warn().Uint("booking_id", id).Msg("attempted to delete non-existing booking")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.invalidate(ctx, booking.BookingNumber); err != nil {
		return false, err
	}

	var deleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&models.BookingEvent{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Booking{}, id)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete booking %d: %w", id, err)
	}
	if deleted == 0 {
		return false, nil
	}

	s.logger.Info().Uint("booking_id", id).Str("booking_number", booking.BookingNumber).Msg("booking deleted")

	if err := s.invalidate(ctx, booking.BookingNumber); err != nil {
		return true, err
	}
	return true, nil
}

// GetBookingByNumber reads through the cache. A cache error skips the cache
// for this lookup and is only logged.
func (s *BookingService) GetBookingByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error) {
	useCache := s.cache != nil
	var generation string
	if useCache {
		cached, gen, err := s.cache.Get(ctx, bookingNumber)
		if err != nil {
			s.logger.Warn().Err(err).Str("booking_number", bookingNumber).Msg("booking cache read failed")
			useCache = false
		}
		if cached != nil {
			return cached, nil
		}
		generation = gen
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Where("booking_number = ?", bookingNumber).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking %q: %w", bookingNumber, err)
	}

	if useCache {
		if err := s.cache.Fill(ctx, &booking, generation); err != nil {
			s.logger.Warn().Err(err).Str("booking_number", bookingNumber).Msg("booking cache write failed")
		}
	}
	return &booking, nil
}

// GetBookingHistory returns the booking's events, oldest first.
func (s *BookingService) GetBookingHistory(ctx context.Context, id uint) ([]models.BookingEvent, error) {
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}

	events := []models.BookingEvent{}
	if err := s.db.WithContext(ctx).Where("booking_id = ?", id).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load history for booking %d: %w", id, err)
	}
	return events, nil
}

func (s *BookingService) invalidate(ctx context.Context, bookingNumber string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, bookingNumber); err != nil {
		s.logger.Error().Err(err).Str("booking_number", bookingNumber).Msg("booking cache invalidation failed")
		return fmt.Errorf("%w: %v", ErrCacheInvalidation, err)
	}
	return nil
}
