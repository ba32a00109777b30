package utils

import (
	"strings"
	"sync"
	"time"

	"github.com/scmhub/calendar"

	"trade-relay/src/logger"
)

// -----------------------------------------------------------------------------
// MarketHours decides whether polling a symbol set is worthwhile right now.
// FX and metal pairs trade around the clock on weekdays; exchange-listed
// symbols are mapped to an ISO 10383 MIC calendar by suffix. The quote poller
// consults AnyOpen before a cycle when respect_market_hours is enabled.
// -----------------------------------------------------------------------------

type MarketHours struct {
	mu      sync.RWMutex
	fx      bool // at least one always-open (FX-style) symbol tracked
	markets map[string]*calendar.Calendar
	logger  *logger.Logger
}

// -----------------------------------------------------------------------------

// NewMarketHours builds a schedule for the given symbols.
func NewMarketHours(symbols []string, l *logger.Logger) *MarketHours {
	mh := &MarketHours{
		markets: make(map[string]*calendar.Calendar),
		logger:  l,
	}
	mh.UpdateSymbols(symbols)
	return mh
}

// -----------------------------------------------------------------------------

// UpdateSymbols replaces the tracked symbol set.
func (m *MarketHours) UpdateSymbols(symbols []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fx = false
	m.markets = make(map[string]*calendar.Calendar)

	for _, symbol := range symbols {
		mic, ok := micForSymbol(symbol)
		if !ok {
			m.fx = true
			continue
		}
		if _, seen := m.markets[mic]; seen {
			continue
		}
		if cal := calendar.GetCalendar(mic); cal != nil {
			m.markets[mic] = cal
		} else {
			m.logger.Warning("No calendar for MIC %s (symbol %s), treating as always open", mic, symbol)
			m.fx = true
		}
	}

	m.logger.Info("Market hours tracking %d exchange calendars (fx/always-open: %v)", len(m.markets), m.fx)
}

// -----------------------------------------------------------------------------

// AnyOpen reports whether at least one tracked market is currently open.
// FX-style symbols count as open outside the weekend gap (Friday 22:00 UTC
// to Sunday 22:00 UTC).
func (m *MarketHours) AnyOpen(now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now = now.UTC()
	if m.fx && !inFxWeekendGap(now) {
		return true
	}

	for _, cal := range m.markets {
		if cal.IsOpen(now) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// micForSymbol maps an exchange suffix to a MIC. Symbols without a known
// suffix (currency pairs, metals) report ok=false and are treated as
// always-open.
func micForSymbol(symbol string) (string, bool) {
	idx := strings.LastIndex(symbol, ".")
	if idx < 0 {
		return "", false
	}

	switch symbol[idx:] {
	case ".L":
		return "xlon", true
	case ".PA":
		return "xpar", true
	case ".DE":
		return "xfra", true
	case ".T":
		return "xtks", true
	case ".HK":
		return "xhkg", true
	case ".AX":
		return "xasx", true
	case ".TO":
		return "xtse", true
	case ".US":
		return "xnys", true
	default:
		return "xnys", true
	}
}

// -----------------------------------------------------------------------------

func inFxWeekendGap(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday:
		return true
	case time.Friday:
		return t.Hour() >= 22
	case time.Sunday:
		return t.Hour() < 22
	default:
		return false
	}
}
