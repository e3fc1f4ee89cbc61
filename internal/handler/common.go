package handler // handler defines http handlers

import (
	"errors"  // sentinel values used in getUserID
	"strconv" // string-to-number conversion for params
	"time"    // date parsing for stay ranges

	"github.com/labstack/echo/v4" // echo defines request context types
)

// dateLayout is the wire format for stay dates.  Dates are calendar
// days interpreted in UTC; check_out is exclusive.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getHotelID extracts the hotel_id stored by the verified-hotel
// middleware.
func getHotelID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("hotel_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("invalid hotel_id in context")
}

// paramID parses a numeric path parameter; zero is treated as invalid.
func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD value as a UTC calendar day.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// parseStayRange parses and validates a check_in/check_out pair.
// check_out must be strictly after check_in.
func parseStayRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid check_in, expected YYYY-MM-DD")
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid check_out, expected YYYY-MM-DD")
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, errors.New("check_out must be after check_in")
	}
	return in, out, nil
}

// pageParams reads page/page_size query parameters with sane bounds.
func pageParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// listPayload is the shared paginated list response shape.
func listPayload(items any, total int64, page, pageSize int) echo.Map {
	return echo.Map{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
}
