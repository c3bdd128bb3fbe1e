package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

const dateLayout = "2006-01-02"

// fail records err on the gin context for the request logger and writes the
// mapped response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	httperr.FromError(c, err)
}

// lookupErr maps a catalog repository miss to NotFound.
func lookupErr(err error, code string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return httperr.ErrPersistence("storage_error", err)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid identifier.")
		return 0, false
	}
	return uint(n), true
}

// queryUint reads an optional numeric query parameter; absent means 0.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(n), true
}

// queryDay parses a required YYYY-MM-DD query parameter as a calendar day.
func queryDay(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		httperr.BadRequest(c, "missing_"+name, "Parameter "+name+" is required.")
		return time.Time{}, false
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return day, true
}

func queryBool(c *gin.Context, name string) (value bool, set bool) {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}
