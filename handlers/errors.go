package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/swimtimes/duration"
	"github.com/padraicbc/swimtimes/relay"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
	"github.com/padraicbc/swimtimes/tracker"
)

// httpError maps domain errors onto status codes.
func httpError(err error) *echo.HTTPError {
	var amb *tracker.AmbiguousNameError
	if errors.As(err, &amb) {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"message": err.Error(),
			"matches": amb.Matches,
		})
	}

	switch {
	case errors.Is(err, table.ErrUnknownEvent),
		errors.Is(err, duration.ErrFormat),
		errors.Is(err, duration.ErrInvalidInput),
		errors.Is(err, swimmer.ErrInvalidDivision),
		errors.Is(err, tracker.ErrDivisionRequired),
		errors.Is(err, tracker.ErrSelection),
		errors.Is(err, relay.ErrLineupSize),
		errors.Is(err, relay.ErrUnknownSwimmer):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, relay.ErrNoSolution),
		errors.Is(err, relay.ErrMissingTime),
		errors.Is(err, table.ErrMissingSwimmer),
		errors.Is(err, table.ErrRejected):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, relay.ErrTooManyCombinations):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
