package feed

import (
	"sort"

	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// Pure change-detection over successive account snapshots. No I/O here: the
// reconciler fetches, these functions decide what changed.
// -----------------------------------------------------------------------------

// PositionDiff is the outcome of comparing two open-position snapshots.
type PositionDiff struct {
	// Updated holds positions that are new or whose profit moved since the
	// previous snapshot, in ascending ticket order.
	Updated []models.MPosition

	// ClosedTickets holds tickets present previously but absent now, in
	// ascending order. Each is a candidate for a closing transaction.
	ClosedTickets []int64
}

// -----------------------------------------------------------------------------

// DiffPositions compares the previous snapshot against the current one.
// A position counts as updated when its ticket is unseen or its profit
// differs from the stored value; other field changes alone do not trigger
// an event.
func DiffPositions(prev, curr map[int64]models.MPosition) PositionDiff {
	var diff PositionDiff

	for ticket, pos := range curr {
		old, seen := prev[ticket]
		if !seen || old.Profit != pos.Profit {
			diff.Updated = append(diff.Updated, pos)
		}
	}

	for ticket := range prev {
		if _, open := curr[ticket]; !open {
			diff.ClosedTickets = append(diff.ClosedTickets, ticket)
		}
	}

	sort.Slice(diff.Updated, func(i, j int) bool {
		return diff.Updated[i].Ticket < diff.Updated[j].Ticket
	})
	sort.Slice(diff.ClosedTickets, func(i, j int) bool {
		return diff.ClosedTickets[i] < diff.ClosedTickets[j]
	})

	return diff
}

// -----------------------------------------------------------------------------

// MatchClosingDeals picks, from the lookback window, the deals that closed
// the given tickets. A position may close in partial fills, so several deals
// can reference one ticket: each distinct deal ticket is returned once.
// Deals already recorded by the guard are skipped. Result is in ascending
// deal-ticket order.
func MatchClosingDeals(closed []int64, deals []models.MTransaction, alreadySent func(int64) bool) []models.MTransaction {
	closedSet := make(map[int64]struct{}, len(closed))
	for _, t := range closed {
		closedSet[t] = struct{}{}
	}

	var out []models.MTransaction
	seen := make(map[int64]struct{})

	for _, deal := range deals {
		if _, ok := closedSet[deal.PositionID]; !ok {
			continue
		}
		if _, dup := seen[deal.Ticket]; dup {
			continue
		}
		if alreadySent != nil && alreadySent(deal.Ticket) {
			continue
		}
		seen[deal.Ticket] = struct{}{}
		out = append(out, deal)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ticket < out[j].Ticket })
	return out
}

// -----------------------------------------------------------------------------

// PositionsByTicket keys a provider snapshot by ticket.
func PositionsByTicket(positions []models.MPosition) map[int64]models.MPosition {
	out := make(map[int64]models.MPosition, len(positions))
	for _, p := range positions {
		out[p.Ticket] = p
	}
	return out
}
