package exchangerate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"finframe/internal/shared/cache"
	"finframe/internal/shared/validate"
)

const (
	DefaultRatesTTL   = time.Hour
	DefaultConvertTTL = 24 * time.Hour
)

var ErrCurrencyNotFound = errors.New("currency not found")

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

var (
	meter          = otel.Meter("finframe/exchangerate")
	cacheLookup, _ = meter.Int64Counter("exchangerate.cache.lookups",
		metric.WithDescription("Exchange rate lookups, cached or not"))
	cacheMiss, _ = meter.Int64Counter("exchangerate.cache.misses",
		metric.WithDescription("Exchange rate lookups that called the API"))
)

// Rates is the latest table for one base currency.
type Rates struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type Conversion struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	Amount          decimal.Decimal `json:"amount"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Date            string          `json:"date"`
}

// pair is the cache key of a conversion rate. Amounts are applied after
// the lookup so the cache holds at most one entry per currency pair.
type pair struct {
	From string
	To   string
}

type pairRate struct {
	Rate decimal.Decimal
	Date string
}

// Service answers rate and conversion questions through a Client, keeping
// rate tables for RatesTTL and conversions for ConvertTTL.
type Service struct {
	client  *Client
	latest  func(context.Context, string) (*Rates, error)
	rate    func(context.Context, pair) (pairRate, error)
}

func NewService(client *Client, c *cache.Cache, ratesTTL, convertTTL time.Duration) *Service {
	if ratesTTL <= 0 {
		ratesTTL = DefaultRatesTTL
	}
	if convertTTL <= 0 {
		convertTTL = DefaultConvertTTL
	}

	s := &Service{client: client}
	instance := cache.InstanceID()
	s.latest = cache.MemoizeMethod(c, instance, "exchangerate.latest", ratesTTL, counted("latest", s.fetchLatest))
	s.rate = cache.MemoizeMethod(c, instance, "exchangerate.convert", convertTTL, counted("convert", s.lookupRate))
	return s
}

// counted records a miss every time fn actually runs.
func counted[K comparable, V any](op string, fn func(context.Context, K) (V, error)) func(context.Context, K) (V, error) {
	return func(ctx context.Context, arg K) (V, error) {
		cacheMiss.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
		return fn(ctx, arg)
	}
}

// LatestRates returns the rate table for base, e.g. "USD".
func (s *Service) LatestRates(ctx context.Context, base string) (*Rates, error) {
	code, err := normalize("base", base)
	if err != nil {
		return nil, err
	}
	cacheLookup.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "latest")))
	return s.latest(ctx, code)
}

// Convert turns amount of from into to at the latest rate.
func (s *Service) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*Conversion, error) {
	p, err := newPair(from, to)
	if err != nil {
		return nil, err
	}
	cacheLookup.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "convert")))
	r, err := s.rate(ctx, p)
	if err != nil {
		return nil, err
	}

	return &Conversion{
		From:            p.From,
		To:              p.To,
		Amount:          amount,
		Rate:            r.Rate,
		ConvertedAmount: amount.Mul(r.Rate).Round(2),
		Date:            r.Date,
	}, nil
}

func (s *Service) fetchLatest(ctx context.Context, base string) (*Rates, error) {
	var rates Rates
	if err := s.client.Get(ctx, "latest/"+url.PathEscape(base), nil, &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}

func (s *Service) lookupRate(ctx context.Context, p pair) (pairRate, error) {
	rates, err := s.latest(ctx, p.From)
	if err != nil {
		return pairRate{}, err
	}
	rate, ok := rates.Rates[p.To]
	if !ok {
		return pairRate{}, fmt.Errorf("%w: %s", ErrCurrencyNotFound, p.To)
	}
	return pairRate{Rate: rate, Date: rates.Date}, nil
}

func newPair(from, to string) (pair, error) {
	f, err := normalize("from", from)
	if err != nil {
		return pair{}, err
	}
	t, err := normalize("to", to)
	if err != nil {
		return pair{}, err
	}
	return pair{From: f, To: t}, nil
}

// normalize upper-cases an ISO 4217 code. Empty means USD.
func normalize(field, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "USD", nil
	}
	if !currencyCode.MatchString(code) {
		return "", validate.Field(field, "currency must be a three-letter ISO 4217 code")
	}
	return code, nil
}
