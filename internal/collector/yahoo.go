package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// Yahoo defaults.
const (
	DefaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	DefaultYahooCookieURL = "https://fc.yahoo.com"
	DefaultYahooUserAgent = "Mozilla/5.0"
)

// YahooFetcher implements Fetcher using Yahoo Finance public API.
// The quote endpoint needs a session cookie plus a matching crumb; both are
// obtained on the first 401 and reused until the next one.
type YahooFetcher struct {
	BaseURL   string
	CookieURL string
	UserAgent string
	Client    *http.Client

	mu    sync.Mutex
	crumb string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. Empty arguments select
// the defaults; the per-call deadline is carried by the request context.
func NewYahooFetcher(baseURL, userAgent, proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultYahooUserAgent
	}
	jar, _ := cookiejar.New(nil) // only fails on a bad public suffix list
	return &YahooFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		CookieURL: DefaultYahooCookieURL,
		UserAgent: userAgent,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
			Jar:       jar,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string   `json:"symbol"`
				Currency             string   `json:"currency"`
				LongName             string   `json:"longName"`
				ShortName            string   `json:"shortName"`
				ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
				PreviousClose        *float64 `json:"previousClose"`
				ChartPreviousClose   *float64 `json:"chartPreviousClose"`
				RegularMarketVolume  *int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// yahooQuote is the response structure from the Yahoo Finance quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			Symbol              string   `json:"symbol"`
			LongName            string   `json:"longName"`
			ShortName           string   `json:"shortName"`
			Currency            string   `json:"currency"`
			MarketCap           *int64   `json:"marketCap"`
			TrailingPE          *float64 `json:"trailingPE"`
			RegularMarketVolume *int64   `json:"regularMarketVolume"`
			PreviousClose       *float64 `json:"regularMarketPreviousClose"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteResponse"`
}

func (f *YahooFetcher) providerErr(symbol, op string, err error) error {
	return &model.ProviderError{Provider: f.Name(), Symbol: symbol, Op: op, Err: err}
}

func (f *YahooFetcher) get(ctx context.Context, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func chartURL(base, symbol string, q ChartQuery) string {
	v := url.Values{}
	v.Set("interval", q.Interval)
	if q.Range != "" {
		v.Set("range", q.Range)
	} else {
		v.Set("period1", strconv.FormatInt(q.Start.Unix(), 10))
		v.Set("period2", strconv.FormatInt(q.End.Unix(), 10))
	}
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", base, url.PathEscape(symbol), v.Encode())
}

func (f *YahooFetcher) FetchChart(ctx context.Context, symbol string, q ChartQuery) (*model.Chart, error) {
	if q.Interval == "" {
		q.Interval = IntervalDaily
	}
	status, body, err := f.get(ctx, chartURL(f.BaseURL, symbol, q))
	if err != nil {
		return nil, f.providerErr(symbol, "chart", err)
	}

	var raw yahooChart
	if err := json.Unmarshal(body, &raw); err != nil {
		if status != http.StatusOK {
			return nil, f.providerErr(symbol, "chart", fmt.Errorf("status %d, body: %s", status, truncate(body)))
		}
		return nil, f.providerErr(symbol, "chart", fmt.Errorf("decode: %w", err))
	}
	if e := raw.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("yahoo chart %s: %w", symbol, model.ErrNoData)
		}
		return nil, f.providerErr(symbol, "chart", fmt.Errorf("api error %s: %s", e.Code, e.Description))
	}
	if status != http.StatusOK {
		return nil, f.providerErr(symbol, "chart", fmt.Errorf("status %d", status))
	}
	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, model.ErrNoData)
	}

	result := raw.Chart.Result[0]
	meta := result.Meta
	chart := &model.Chart{
		Meta: model.ChartMeta{
			Symbol:    meta.Symbol,
			Currency:  meta.Currency,
			LongName:  meta.LongName,
			ShortName: meta.ShortName,
			Timezone:  meta.ExchangeTimezoneName,
		},
	}
	if meta.PreviousClose != nil {
		chart.Meta.PreviousClose = null.FloatFrom(*meta.PreviousClose)
	} else if meta.ChartPreviousClose != nil {
		chart.Meta.PreviousClose = null.FloatFrom(*meta.ChartPreviousClose)
	}
	if meta.RegularMarketVolume != nil {
		chart.Meta.RegularMarketVolume = null.IntFrom(*meta.RegularMarketVolume)
	}

	loc := time.UTC
	if meta.ExchangeTimezoneName != "" {
		if l, err := time.LoadLocation(meta.ExchangeTimezoneName); err == nil {
			loc = l
		}
	}

	if len(result.Indicators.Quote) == 0 {
		return chart, nil
	}
	quote := result.Indicators.Quote[0]
	chart.Bars = make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c, ok := at(quote.Close, i)
		if !ok {
			continue // skip null bars (holidays, halted minutes)
		}
		o, _ := at(quote.Open, i)
		h, _ := at(quote.High, i)
		l, _ := at(quote.Low, i)
		v, _ := at(quote.Volume, i)
		chart.Bars = append(chart.Bars, model.Bar{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   orElse(o, c),
			High:   orElse(h, c),
			Low:    orElse(l, c),
			Close:  c,
			Volume: int64(v),
		})
	}
	return chart, nil
}

func (f *YahooFetcher) cachedCrumb() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.crumb
}

// refreshCrumb collects the session cookie and exchanges it for a crumb.
func (f *YahooFetcher) refreshCrumb(ctx context.Context) (string, error) {
	// the cookie endpoint answers 404 but still sets the cookie
	if _, _, err := f.get(ctx, f.CookieURL); err != nil {
		return "", fmt.Errorf("cookie: %w", err)
	}
	status, body, err := f.get(ctx, f.BaseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "{<") {
		return "", fmt.Errorf("crumb: status %d, body: %s", status, truncate(body))
	}

	f.mu.Lock()
	f.crumb = crumb
	f.mu.Unlock()
	return crumb, nil
}

func quoteURL(base, symbol, crumb string) string {
	v := url.Values{}
	v.Set("symbols", symbol)
	if crumb != "" {
		v.Set("crumb", crumb)
	}
	return base + "/v7/finance/quote?" + v.Encode()
}

func (f *YahooFetcher) FetchProfile(ctx context.Context, symbol string) (*model.Profile, error) {
	status, body, err := f.get(ctx, quoteURL(f.BaseURL, symbol, f.cachedCrumb()))
	if err != nil {
		return nil, f.providerErr(symbol, "profile", err)
	}
	if status == http.StatusUnauthorized {
		crumb, cerr := f.refreshCrumb(ctx)
		if cerr != nil {
			return nil, f.providerErr(symbol, "profile", fmt.Errorf("status %d: %w", status, cerr))
		}
		status, body, err = f.get(ctx, quoteURL(f.BaseURL, symbol, crumb))
		if err != nil {
			return nil, f.providerErr(symbol, "profile", err)
		}
	}
	if status != http.StatusOK {
		return nil, f.providerErr(symbol, "profile", fmt.Errorf("status %d, body: %s", status, truncate(body)))
	}

	var raw yahooQuote
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, f.providerErr(symbol, "profile", fmt.Errorf("decode: %w", err))
	}
	if e := raw.QuoteResponse.Error; e != nil {
		return nil, f.providerErr(symbol, "profile", fmt.Errorf("api error %s: %s", e.Code, e.Description))
	}
	if len(raw.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo profile %s: %w", symbol, model.ErrNoData)
	}

	r := raw.QuoteResponse.Result[0]
	p := &model.Profile{
		Symbol:    r.Symbol,
		LongName:  r.LongName,
		ShortName: r.ShortName,
		Currency:  r.Currency,
	}
	if r.MarketCap != nil {
		p.MarketCap = null.IntFrom(*r.MarketCap)
	}
	if r.TrailingPE != nil {
		p.TrailingPE = null.FloatFrom(*r.TrailingPE)
	}
	if r.RegularMarketVolume != nil {
		p.Volume = null.IntFrom(*r.RegularMarketVolume)
	}
	if r.PreviousClose != nil {
		p.PreviousClose = null.FloatFrom(*r.PreviousClose)
	}
	return p, nil
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

func orElse(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
