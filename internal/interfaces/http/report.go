package http

import (
	"net/http"
	"strconv"
	"time"

	"finframe/internal/domain/analytics"
	"finframe/internal/domain/record"
	"finframe/internal/shared/dates"
)

type ReportHandler struct {
	analyzer *analytics.Analyzer
	now      record.Clock
}

func NewReportHandler(analyzer *analytics.Analyzer) *ReportHandler {
	return &ReportHandler{analyzer: analyzer, now: record.Now}
}

// reference reads ?date=YYYY-MM-DD, defaulting to today.
func (h *ReportHandler) reference(r *http.Request) time.Time {
	if d, ok := dates.Parse(r.URL.Query().Get("date"), isoDate); ok {
		return d
	}
	return h.now()
}

// HandleSummary handles GET /api/reports/summary?period=&date=
func (h *ReportHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	period := dates.Period(r.URL.Query().Get("period"))
	summary, err := h.analyzer.SummaryByPeriod(r.Context(), userID, period, h.reference(r))
	if err != nil {
		writeError(w, r, err, "build summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleBreakdown handles GET /api/reports/breakdown?type=&period=&date=
func (h *ReportHandler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	typ := record.EntryType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = record.Expense
	}
	if !typ.IsValid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "type must be income or expense"})
		return
	}

	period := dates.Period(r.URL.Query().Get("period"))
	breakdown, err := h.analyzer.CategoryBreakdown(r.Context(), userID, typ, period, h.reference(r))
	if err != nil {
		writeError(w, r, err, "build breakdown")
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// HandleTrends handles GET /api/reports/trends?months=
func (h *ReportHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	if months > 36 {
		months = 36
	}

	trends, err := h.analyzer.TrendsByMonth(r.Context(), userID, months, h.now())
	if err != nil {
		writeError(w, r, err, "build trends")
		return
	}
	writeJSON(w, http.StatusOK, trends)
}
