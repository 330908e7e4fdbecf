package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/natfilters/natpricing/internal/export"
	"github.com/natfilters/natpricing/internal/pricing"
	"github.com/natfilters/natpricing/internal/quotes"
	"github.com/natfilters/natpricing/internal/refdata"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// splitDimension separates a decimal inch dimension into its whole and
// fractional parts. Dimensions must land on an eighth-inch increment; the
// order form offers nothing finer.
func splitDimension(v float64) (int, refdata.Fraction, error) {
	if v < 0 {
		return 0, 0, fmt.Errorf("dimension must not be negative")
	}
	whole := int(math.Floor(v))
	frac, ok := refdata.FractionFromDecimal(v - float64(whole))
	if !ok || frac%2 != 0 {
		return 0, 0, fmt.Errorf("dimension %g is not an eighth-inch increment", v)
	}
	return whole, frac, nil
}

type pleatRequest struct {
	ProductFamily string  `json:"product_family"`
	Width         float64 `json:"width"`
	Length        float64 `json:"length"`
	Depth         int     `json:"depth"`
	Exact         bool    `json:"exact"`
	Trace         bool    `json:"trace"`
}

func (s *server) handleCalcPleats(w http.ResponseWriter, r *http.Request) {
	var req pleatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wWhole, wFrac, err := splitDimension(req.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, "width: "+err.Error())
		return
	}
	lWhole, lFrac, err := splitDimension(req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "length: "+err.Error())
		return
	}

	res := pricing.CalculatePleats(pricing.PleatInput{
		ProductFamily:  req.ProductFamily,
		WidthWhole:     wWhole,
		WidthFraction:  wFrac,
		LengthWhole:    lWhole,
		LengthFraction: lFrac,
		Depth:          req.Depth,
		IsExact:        req.Exact,
		WithTrace:      req.Trace,
	}, &s.tables.Pleats)

	writeJSON(w, http.StatusOK, res)
}

type panelRequest struct {
	Family     string  `json:"family"`
	AddOn      string  `json:"add_on"`
	Type       string  `json:"type"`
	Height     float64 `json:"height"`
	Width      float64 `json:"width"`
	PanelCount int     `json:"panel_count"`
	Exact      bool    `json:"exact"`
	Trace      bool    `json:"trace"`
}

func (s *server) handleCalcPanels(w http.ResponseWriter, r *http.Request) {
	var req panelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Type != pricing.TypePanel && req.Type != pricing.TypeLink {
		writeError(w, http.StatusBadRequest, "type must be Panel or Link")
		return
	}

	hWhole, hFrac, err := splitDimension(req.Height)
	if err != nil {
		writeError(w, http.StatusBadRequest, "height: "+err.Error())
		return
	}
	wWhole, wFrac, err := splitDimension(req.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, "width: "+err.Error())
		return
	}

	res := pricing.CalculatePanels(pricing.PanelInput{
		Family:         req.Family,
		AddOn:          req.AddOn,
		Type:           req.Type,
		HeightWhole:    hWhole,
		HeightFraction: hFrac,
		WidthWhole:     wWhole,
		WidthFraction:  wFrac,
		PanelCount:     req.PanelCount,
		IsExact:        req.Exact,
		WithTrace:      req.Trace,
	}, &s.tables.Panels)

	writeJSON(w, http.StatusOK, res)
}

type padRequest struct {
	Product string  `json:"product"`
	Option  string  `json:"option"`
	Width   float64 `json:"width"`
	Length  float64 `json:"length"`
	Trace   bool    `json:"trace"`
}

func (s *server) handleCalcPads(w http.ResponseWriter, r *http.Request) {
	var req padRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wWhole, wFrac, err := splitDimension(req.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, "width: "+err.Error())
		return
	}
	lWhole, lFrac, err := splitDimension(req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "length: "+err.Error())
		return
	}

	res := pricing.CalculatePads(pricing.PadInput{
		Product:        req.Product,
		Option:         req.Option,
		WidthWhole:     wWhole,
		WidthFraction:  wFrac,
		LengthWhole:    lWhole,
		LengthFraction: lFrac,
		WithTrace:      req.Trace,
	}, &s.tables.Pads)

	writeJSON(w, http.StatusOK, res)
}

type sleeveRequest struct {
	Product string  `json:"product"`
	Option  string  `json:"option"`
	Width   float64 `json:"width"`
	Length  float64 `json:"length"`
	Trace   bool    `json:"trace"`
}

func (s *server) handleCalcSleeves(w http.ResponseWriter, r *http.Request) {
	var req sleeveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wWhole, wFrac, err := splitDimension(req.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, "width: "+err.Error())
		return
	}
	lWhole, lFrac, err := splitDimension(req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, "length: "+err.Error())
		return
	}

	res := pricing.CalculateSleeves(pricing.SleeveInput{
		Product:        req.Product,
		Option:         req.Option,
		WidthWhole:     wWhole,
		WidthFraction:  wFrac,
		LengthWhole:    lWhole,
		LengthFraction: lFrac,
		WithTrace:      req.Trace,
	}, &s.tables.Sleeves)

	writeJSON(w, http.StatusOK, res)
}

type addQuoteRequest struct {
	Calculator  string   `json:"calculator"`
	Product     string   `json:"product"`
	Description string   `json:"description"`
	PartNumber  string   `json:"part_number"`
	Price       float64  `json:"price"`
	CartonQty   int      `json:"carton_qty"`
	CartonPrice float64  `json:"carton_price"`
	Notices     []string `json:"notices"`
}

var validCalculators = map[string]bool{
	"pleats":  true,
	"panels":  true,
	"pads":    true,
	"sleeves": true,
}

func (s *server) handleQuotesAdd(w http.ResponseWriter, r *http.Request) {
	var req addQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !validCalculators[req.Calculator] {
		writeError(w, http.StatusBadRequest, "calculator must be one of pleats, panels, pads, sleeves")
		return
	}
	if strings.TrimSpace(req.PartNumber) == "" {
		writeError(w, http.StatusBadRequest, "part_number is required")
		return
	}

	saved := s.quotes.Add(quotes.Quote{
		Calculator:  req.Calculator,
		Product:     req.Product,
		Description: req.Description,
		PartNumber:  req.PartNumber,
		Price:       req.Price,
		CartonQty:   req.CartonQty,
		CartonPrice: req.CartonPrice,
		Notices:     req.Notices,
	})

	writeJSON(w, http.StatusCreated, saved)
}

type quoteListResponse struct {
	Quotes []quotes.Quote `json:"quotes"`
	Total  float64        `json:"total"`
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, quoteListResponse{
		Quotes: s.quotes.List(query),
		Total:  s.quotes.Total(),
	})
}

func (s *server) handleQuotesRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	if !s.quotes.Remove(id) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleQuotesClear(w http.ResponseWriter, r *http.Request) {
	s.quotes.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleQuotesExport(w http.ResponseWriter, r *http.Request) {
	list := s.quotes.List(strings.TrimSpace(r.URL.Query().Get("q")))

	filename := "quotes-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.QuoteWorkbook(w, list); err != nil {
		// Headers are already on the wire; all we can do is log.
		log.Printf("failed to export quote workbook: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
