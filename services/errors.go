package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidStatus          = errors.New("invalid booking status")
	ErrDuplicateBookingNumber = errors.New("booking number already exists")
	ErrBookingNumberExhausted = errors.New("could not generate a unique booking number")
	ErrCacheInvalidation      = errors.New("booking cache invalidation failed")
	ErrPasswordRequired       = errors.New("password is required")
	ErrPasswordTooLong        = errors.New("password must be at most 72 bytes")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isUniqueViolation reports whether err came from a unique index. GORM
// translates most drivers' errors to ErrDuplicatedKey; the rest is a fallback
// for drivers or versions that do not.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}

	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique constraint")
}
