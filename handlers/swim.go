package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/swimtimes/relay"
	"github.com/padraicbc/swimtimes/store"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
	"github.com/padraicbc/swimtimes/tracker"
)

type tableData struct {
	Header []string    `json:"header"`
	Rows   []table.Row `json:"rows"`
}

// Table returns the master table. The ETag is the table fingerprint.
func (h *Handler) Table(c echo.Context) error {
	t, err := h.svc.Table(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	etag := `"` + strconv.FormatUint(t.Fingerprint(), 16) + `"`
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSON(http.StatusOK, tableData{Header: table.Header, Rows: t.Rows()})
}

// Roster returns the active swimmers.
func (h *Handler) Roster(c echo.Context) error {
	roster, err := h.svc.Roster(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if roster == nil {
		roster = []swimmer.Swimmer{}
	}
	return c.JSON(http.StatusOK, roster)
}

// SetRoster replaces the roster and reconciles the table against it.
func (h *Handler) SetRoster(c echo.Context) error {
	var roster []swimmer.Swimmer
	if err := c.Bind(&roster); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.SetRoster(c.Request().Context(), roster, h.decider)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

type importRequest struct {
	Force   bool          `json:"force"`
	Batches []table.Batch `json:"batches"`
}

// ImportBatches applies result batches. It takes either a JSON body or a
// multipart form with one or more "file" CSV parts, an optional "event"
// (otherwise derived from each file name) and "force".
func (h *Handler) ImportBatches(c echo.Context) error {
	var req importRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		batches, err := batchesFromForm(c)
		if err != nil {
			return err
		}
		req.Batches = batches
		req.Force, _ = strconv.ParseBool(c.FormValue("force"))
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if len(req.Batches) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no batches given")
	}

	var opts []table.ApplyOption
	if req.Force {
		opts = append(opts, table.WithForce())
	}
	rep, err := h.svc.Import(c.Request().Context(), h.decider, req.Batches, opts...)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rep)
}

func batchesFromForm(c echo.Context) ([]table.Batch, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	event := strings.ToUpper(strings.TrimSpace(c.FormValue("event")))

	var out []table.Batch
	for _, fh := range form.File["file"] {
		f, err := fh.Open()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		ev := event
		if ev == "" {
			ev = table.EventFromFilename(fh.Filename)
		}
		b, err := store.ReadBatch(f, ev)
		_ = f.Close()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		out = append(out, b)
	}
	return out, nil
}

type manualRequest struct {
	tracker.ManualEntry
	// Overwrite allows a slower time to replace a faster stored one.
	Overwrite bool `json:"overwrite"`
}

// Manual records one hand-entered time.
func (h *Handler) Manual(c echo.Context) error {
	var req manualRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d := table.Router{table.OverwriteSlower: table.Always(table.No)}
	if req.Overwrite {
		d[table.OverwriteSlower] = table.Always(table.Yes)
	}
	res, err := h.svc.RecordManual(c.Request().Context(), d, req.ManualEntry)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// Search fuzzy-matches the q parameter against swimmer names.
func (h *Handler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	matches, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	if matches == nil {
		return c.JSON(http.StatusOK, []any{})
	}
	return c.JSON(http.StatusOK, matches)
}

type relayRequest struct {
	Type      string   `json:"type"`
	Names     []string `json:"names"`
	Divisions []string `json:"divisions"`
}

func (r relayRequest) kind() (relay.Kind, error) {
	if r.Type == "" {
		return relay.Medley, nil
	}
	k, err := relay.ParseKind(r.Type)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return k, nil
}

// IdealRelay builds the fastest lineup from the named swimmers or divisions.
func (h *Handler) IdealRelay(c echo.Context) error {
	var req relayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	kind, err := req.kind()
	if err != nil {
		return err
	}

	res, err := h.svc.IdealRelay(c.Request().Context(), kind, tracker.Selection{Names: req.Names, Divisions: req.Divisions})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// EstimateRelay totals four named swimmers in swimming order.
func (h *Handler) EstimateRelay(c echo.Context) error {
	var req relayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	kind, err := req.kind()
	if err != nil {
		return err
	}

	l, err := h.svc.EstimateRelay(c.Request().Context(), kind, req.Names)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, l)
}
