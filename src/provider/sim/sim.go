package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"trade-relay/src/logger"
	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// Simulated provider. Quotes follow a random walk; positions open and close
// on a random schedule so the reconciler and replay paths see a realistic
// stream without an upstream account. Deterministic under a fixed seed.
// -----------------------------------------------------------------------------

const (
	basePrice        = 1.10
	walkStep         = 0.0005
	spreadPips       = 0.0002
	openChance       = 0.10
	closeChance      = 0.08
	maxOpenPerSym    = 3
	dealRetention    = 8 * 24 * time.Hour
	commissionPerLot = -3.5
)

type SimProvider struct {
	Logger *logger.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	symbols    []string
	prices     map[string]float64
	positions  map[int64]models.MPosition
	deals      []models.MTransaction
	nextTicket int64
}

// -----------------------------------------------------------------------------

func NewSimProvider(cfg models.MProviderConfig, l *logger.Logger) *SimProvider {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	p := &SimProvider{
		Logger:     l,
		rng:        rand.New(rand.NewSource(seed)),
		symbols:    append([]string(nil), cfg.Symbols...),
		prices:     make(map[string]float64),
		positions:  make(map[int64]models.MPosition),
		nextTicket: 100000,
	}

	for i, symbol := range p.symbols {
		p.prices[symbol] = basePrice + float64(i)*0.05
	}

	l.Info("Simulated provider ready (%d symbols, seed %d)", len(p.symbols), seed)
	return p
}

// -----------------------------------------------------------------------------
// Quotes
// -----------------------------------------------------------------------------

func (p *SimProvider) GetQuotes(ctx context.Context, symbols []string) (map[string]models.MQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	quotes := make(map[string]models.MQuote, len(symbols))
	for _, symbol := range symbols {
		price, known := p.prices[symbol]
		if !known {
			// Unknown symbols are simply absent from the result.
			continue
		}

		price += (p.rng.Float64()*2 - 1) * walkStep
		price = math.Max(price, 0.0001)
		p.prices[symbol] = price

		quotes[symbol] = models.MQuote{
			Symbol: symbol,
			Bid:    price,
			Ask:    price + spreadPips,
		}
	}
	return quotes, nil
}

// -----------------------------------------------------------------------------
// Account lifecycle
// -----------------------------------------------------------------------------

func (p *SimProvider) GetOpenPositions(ctx context.Context) ([]models.MPosition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.maybeOpen()
	p.maybeClose()
	p.refreshProfits()

	positions := make([]models.MPosition, 0, len(p.positions))
	for _, pos := range p.positions {
		positions = append(positions, pos)
	}
	return positions, nil
}

// -----------------------------------------------------------------------------

func (p *SimProvider) GetRecentClosingDeals(ctx context.Context, window time.Duration) ([]models.MTransaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().UTC().Add(-window)
	recent := make([]models.MTransaction, 0, len(p.deals))
	for _, deal := range p.deals {
		if deal.ClosedAt.After(cutoff) {
			recent = append(recent, deal)
		}
	}
	return recent, nil
}

// -----------------------------------------------------------------------------
// Internal simulation steps, caller holds the lock.
// -----------------------------------------------------------------------------

func (p *SimProvider) maybeOpen() {
	if len(p.symbols) == 0 || p.rng.Float64() >= openChance {
		return
	}

	symbol := p.symbols[p.rng.Intn(len(p.symbols))]
	if p.openCount(symbol) >= maxOpenPerSym {
		return
	}

	side := models.SideBuy
	if p.rng.Float64() < 0.5 {
		side = models.SideSell
	}

	p.nextTicket++
	ticket := p.nextTicket
	p.positions[ticket] = models.MPosition{
		Ticket:    ticket,
		Symbol:    symbol,
		Side:      side,
		Volume:    0.01 * float64(1+p.rng.Intn(10)),
		OpenPrice: p.prices[symbol],
	}
	p.Logger.Debug("Sim opened position %d on %s (%s)", ticket, symbol, side)
}

// -----------------------------------------------------------------------------

func (p *SimProvider) maybeClose() {
	if len(p.positions) == 0 || p.rng.Float64() >= closeChance {
		return
	}

	var victim models.MPosition
	pick := p.rng.Intn(len(p.positions))
	for _, pos := range p.positions {
		if pick == 0 {
			victim = pos
			break
		}
		pick--
	}

	// The deal runs opposite to the position it closes.
	dealSide := models.SideSell
	if victim.Side == models.SideSell {
		dealSide = models.SideBuy
	}

	p.nextTicket++
	deal := models.MTransaction{
		Ticket:     p.nextTicket,
		PositionID: victim.Ticket,
		Symbol:     victim.Symbol,
		Side:       dealSide,
		Volume:     victim.Volume,
		Price:      p.prices[victim.Symbol],
		Commission: commissionPerLot * victim.Volume,
		Profit:     victim.Profit,
		ClosedAt:   time.Now().UTC(),
	}

	delete(p.positions, victim.Ticket)
	p.deals = append(p.deals, deal)
	p.pruneDeals()

	p.Logger.Debug("Sim closed position %d with deal %d (%s)", victim.Ticket, deal.Ticket, deal.CloseSide())
}

// -----------------------------------------------------------------------------

func (p *SimProvider) refreshProfits() {
	for ticket, pos := range p.positions {
		price := p.prices[pos.Symbol]
		move := price - pos.OpenPrice
		if pos.Side == models.SideSell {
			move = -move
		}
		pos.Profit = math.Round(move*pos.Volume*100000) / 100
		p.positions[ticket] = pos
	}
}

// -----------------------------------------------------------------------------

func (p *SimProvider) openCount(symbol string) int {
	n := 0
	for _, pos := range p.positions {
		if pos.Symbol == symbol {
			n++
		}
	}
	return n
}

// -----------------------------------------------------------------------------

func (p *SimProvider) pruneDeals() {
	cutoff := time.Now().UTC().Add(-dealRetention)
	kept := p.deals[:0]
	for _, deal := range p.deals {
		if deal.ClosedAt.After(cutoff) {
			kept = append(kept, deal)
		}
	}
	p.deals = kept
}
