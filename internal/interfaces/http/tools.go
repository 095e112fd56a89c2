package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/finance"
	"finframe/internal/infrastructure/exchangerate"
	"finframe/internal/shared/money"
	"finframe/internal/shared/validate"
)

// Converter is satisfied by *exchangerate.Service.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*exchangerate.Conversion, error)
}

// ToolsHandler serves the stateless calculators. Interest rates are annual
// fractions (0.05 is 5%); VAT rates are percentages.
type ToolsHandler struct {
	converter Converter
	format    money.Formatter
	vatRate   decimal.Decimal
}

func NewToolsHandler(converter Converter, format money.Formatter, vatRate decimal.Decimal) *ToolsHandler {
	return &ToolsHandler{converter: converter, format: format, vatRate: vatRate}
}

type CompoundInterestRequest struct {
	Principal        decimal.Decimal `json:"principal"`
	Rate             decimal.Decimal `json:"rate"`
	Years            int             `json:"years"`
	CompoundsPerYear int             `json:"compoundsPerYear"`
}

type LoanPaymentRequest struct {
	Principal decimal.Decimal `json:"principal"`
	Rate      decimal.Decimal `json:"rate"`
	Months    int             `json:"months"`
}

type MortgagePaymentRequest struct {
	Principal decimal.Decimal   `json:"principal"`
	Rate      decimal.Decimal   `json:"rate"`
	Years     int               `json:"years"`
	Frequency finance.Frequency `json:"frequency"`
}

type InvestmentGrowthRequest struct {
	Initial decimal.Decimal `json:"initial"`
	Monthly decimal.Decimal `json:"monthly"`
	Rate    decimal.Decimal `json:"rate"`
	Years   int             `json:"years"`
}

// VATRequest computes tax on top of Amount, or extracts it from Amount
// when Mode is "extract". Rate defaults to the configured VAT rate.
type VATRequest struct {
	Amount decimal.Decimal  `json:"amount"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Mode   string           `json:"mode,omitempty"`
}

type VATResponse struct {
	Net   decimal.Decimal `json:"net"`
	VAT   decimal.Decimal `json:"vat"`
	Gross decimal.Decimal `json:"gross"`
	Rate  decimal.Decimal `json:"rate"`
}

type ConvertRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type FormatCurrencyRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Symbol   *string         `json:"symbol,omitempty"`
	Position money.Position  `json:"position,omitempty"`
	Places   *int32          `json:"places,omitempty"`
}

type AmountResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

func (h *ToolsHandler) amount(d decimal.Decimal) AmountResponse {
	return AmountResponse{Amount: d, Formatted: h.format.Format(d)}
}

// post decodes a POST body into req, writing the error response itself.
func post(w http.ResponseWriter, r *http.Request, req any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return decodeBody(w, r, req)
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return validate.Field(field, field+" cannot be negative")
	}
	return nil
}

func (h *ToolsHandler) HandleCompoundInterest(w http.ResponseWriter, r *http.Request) {
	var req CompoundInterestRequest
	if !post(w, r, &req) {
		return
	}
	if err := nonNegative("principal", req.Principal); err != nil {
		writeError(w, r, err, "calculate compound interest")
		return
	}

	total, err := finance.CompoundInterest(req.Principal, req.Rate, req.Years, req.CompoundsPerYear)
	if err != nil {
		writeError(w, r, err, "calculate compound interest")
		return
	}
	writeJSON(w, http.StatusOK, h.amount(total))
}

func (h *ToolsHandler) HandleLoanPayment(w http.ResponseWriter, r *http.Request) {
	var req LoanPaymentRequest
	if !post(w, r, &req) {
		return
	}
	if err := nonNegative("principal", req.Principal); err != nil {
		writeError(w, r, err, "calculate loan payment")
		return
	}

	payment, err := finance.LoanPayment(req.Principal, req.Rate, req.Months)
	if err != nil {
		writeError(w, r, err, "calculate loan payment")
		return
	}
	writeJSON(w, http.StatusOK, h.amount(payment))
}

func (h *ToolsHandler) HandleMortgagePayment(w http.ResponseWriter, r *http.Request) {
	var req MortgagePaymentRequest
	if !post(w, r, &req) {
		return
	}
	if err := nonNegative("principal", req.Principal); err != nil {
		writeError(w, r, err, "calculate mortgage payment")
		return
	}

	payment, err := finance.MortgagePayment(req.Principal, req.Rate, req.Years, req.Frequency)
	if err != nil {
		writeError(w, r, err, "calculate mortgage payment")
		return
	}
	writeJSON(w, http.StatusOK, h.amount(payment))
}

func (h *ToolsHandler) HandleInvestmentGrowth(w http.ResponseWriter, r *http.Request) {
	var req InvestmentGrowthRequest
	if !post(w, r, &req) {
		return
	}

	growth, err := finance.InvestmentGrowth(req.Initial, req.Monthly, req.Rate, req.Years)
	if err != nil {
		writeError(w, r, err, "calculate investment growth")
		return
	}
	writeJSON(w, http.StatusOK, growth)
}

func (h *ToolsHandler) HandleVAT(w http.ResponseWriter, r *http.Request) {
	var req VATRequest
	if !post(w, r, &req) {
		return
	}

	rate := h.vatRate
	if req.Rate != nil {
		rate = *req.Rate
	}
	if err := nonNegative("rate", rate); err != nil {
		writeError(w, r, err, "calculate VAT")
		return
	}

	resp := VATResponse{Rate: rate}
	switch req.Mode {
	case "", "add":
		vat, gross := money.VAT(req.Amount, rate)
		resp.Net, resp.VAT, resp.Gross = req.Amount, vat.Round(2), gross.Round(2)
	case "extract":
		net, vat := money.ExtractVAT(req.Amount, rate)
		resp.Net, resp.VAT, resp.Gross = net.Round(2), vat.Round(2), req.Amount
	default:
		writeError(w, r, validate.Field("mode", "mode must be add or extract"), "calculate VAT")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ToolsHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !post(w, r, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, r, validate.Field("amount", "amount must be greater than zero"), "convert currency")
		return
	}

	conv, err := h.converter.Convert(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, r, err, "convert currency")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *ToolsHandler) HandleFormatCurrency(w http.ResponseWriter, r *http.Request) {
	var req FormatCurrencyRequest
	if !post(w, r, &req) {
		return
	}

	f := h.format
	if req.Symbol != nil {
		f.Symbol = *req.Symbol
	}
	switch req.Position {
	case "":
	case money.Prefix, money.Suffix:
		f.Position = req.Position
	default:
		writeError(w, r, validate.Field("position", "position must be prefix or suffix"), "format currency")
		return
	}
	if req.Places != nil {
		f.Places = *req.Places
	}

	writeJSON(w, http.StatusOK, AmountResponse{Amount: req.Amount, Formatted: f.Format(req.Amount)})
}
