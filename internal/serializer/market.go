package serializer

import (
	"sort"
	"time"

	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/storage"
	"github.com/shopspring/decimal"
)

// TopMovers is how many companies each top gainers/losers list holds.
const TopMovers = 5

// MarketSummary aggregates the latest two closes per company on or before ref.
//
// Behavior:
//   - Market cap sums the latest close times shares outstanding; companies without
//     shares_outstanding use defaultShares.
//   - Gainers, losers and unchanged compare the two most recent closes; companies
//     with a single price are counted in CompaniesWithPrices only.
//   - LastUpdated is the newest price date among the points.
func MarketSummary(ref time.Time, totalCompanies int, points []storage.PricePoint, defaultShares int64) dto.MarketSummaryResponse {
	type pair struct {
		latest, previous *storage.PricePoint
	}
	byCompany := make(map[int64]*pair)
	var order []int64
	for i := range points {
		p := &points[i]
		pr, ok := byCompany[p.CompanyID]
		if !ok {
			pr = &pair{}
			byCompany[p.CompanyID] = pr
			order = append(order, p.CompanyID)
		}
		switch p.Rank {
		case 1:
			pr.latest = p
		case 2:
			pr.previous = p
		}
	}

	resp := dto.MarketSummaryResponse{
		ReferenceDate:  dto.NewDate(ref),
		TotalCompanies: totalCompanies,
		TopGainers:     []dto.PriceMove{},
		TopLosers:      []dto.PriceMove{},
	}
	capSum := decimal.Zero
	var newest time.Time
	var moves []dto.PriceMove

	for _, id := range order {
		pr := byCompany[id]
		if pr.latest == nil {
			continue
		}
		resp.CompaniesWithPrices++
		if pr.latest.Date.After(newest) {
			newest = pr.latest.Date
		}
		if pr.latest.Close != nil {
			shares := defaultShares
			if pr.latest.SharesOutstanding != nil {
				shares = *pr.latest.SharesOutstanding
			}
			capSum = capSum.Add(decimal.NewFromFloat(*pr.latest.Close).Mul(decimal.NewFromInt(shares)))
		}
		if pr.previous == nil {
			continue
		}
		move := dto.PriceMove{
			CompanyID:     id,
			Ticker:        pr.latest.Ticker,
			Name:          pr.latest.Name,
			Close:         pr.latest.Close,
			PreviousClose: pr.previous.Close,
			ChangePercent: PercentChange(pr.latest.Close, pr.previous.Close),
			Volume:        pr.latest.Volume,
		}
		if move.ChangePercent == nil {
			continue
		}
		switch c := *move.ChangePercent; {
		case c > 0:
			resp.Gainers++
		case c < 0:
			resp.Losers++
		default:
			resp.Unchanged++
		}
		moves = append(moves, move)
	}

	resp.MarketCap = capSum.Round(2).InexactFloat64()
	if !newest.IsZero() {
		resp.LastUpdated = dto.DatePtr(&newest)
	}

	sortMoves(moves, func(a, b dto.PriceMove) bool { return *a.ChangePercent > *b.ChangePercent })
	for _, m := range moves {
		if len(resp.TopGainers) == TopMovers || *m.ChangePercent <= 0 {
			break
		}
		resp.TopGainers = append(resp.TopGainers, m)
	}
	sortMoves(moves, func(a, b dto.PriceMove) bool { return *a.ChangePercent < *b.ChangePercent })
	for _, m := range moves {
		if len(resp.TopLosers) == TopMovers || *m.ChangePercent >= 0 {
			break
		}
		resp.TopLosers = append(resp.TopLosers, m)
	}
	return resp
}

// MarketTrends maps per-date aggregates in ascending date order.
func MarketTrends(days int, rows []storage.TrendRow) dto.MarketTrendsResponse {
	points := make([]dto.MarketTrendPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, dto.MarketTrendPoint{
			Date:         dto.NewDate(r.Date),
			Companies:    r.Companies,
			AverageClose: roundPtr(r.AverageClose),
			TotalVolume:  r.TotalVolume,
			Advancing:    r.Advancing,
			Declining:    r.Declining,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Time().Before(points[j].Date.Time()) })
	return dto.MarketTrendsResponse{Days: days, Points: points}
}

// MarketLeaders ranks companies over a window by traded volume and by the change
// between their first and last close in the window.
func MarketLeaders(days, limit int, rows []storage.WindowRow) dto.MarketLeadersResponse {
	resp := dto.MarketLeadersResponse{
		Days:     days,
		ByVolume: []dto.PriceMove{},
		ByGain:   []dto.PriceMove{},
		ByLoss:   []dto.PriceMove{},
	}
	moves := make([]dto.PriceMove, 0, len(rows))
	for _, r := range rows {
		vol := r.Volume
		moves = append(moves, dto.PriceMove{
			CompanyID:     r.CompanyID,
			Ticker:        r.Ticker,
			Name:          r.Name,
			Close:         r.LastClose,
			PreviousClose: r.FirstClose,
			ChangePercent: PercentChange(r.LastClose, r.FirstClose),
			Volume:        &vol,
		})
	}

	sortMoves(moves, func(a, b dto.PriceMove) bool { return *a.Volume > *b.Volume })
	for _, m := range moves {
		if len(resp.ByVolume) == limit {
			break
		}
		resp.ByVolume = append(resp.ByVolume, m)
	}

	var changed []dto.PriceMove
	for _, m := range moves {
		if m.ChangePercent != nil {
			changed = append(changed, m)
		}
	}
	sortMoves(changed, func(a, b dto.PriceMove) bool { return *a.ChangePercent > *b.ChangePercent })
	for _, m := range changed {
		if len(resp.ByGain) == limit || *m.ChangePercent <= 0 {
			break
		}
		resp.ByGain = append(resp.ByGain, m)
	}
	sortMoves(changed, func(a, b dto.PriceMove) bool { return *a.ChangePercent < *b.ChangePercent })
	for _, m := range changed {
		if len(resp.ByLoss) == limit || *m.ChangePercent >= 0 {
			break
		}
		resp.ByLoss = append(resp.ByLoss, m)
	}
	return resp
}

// sortMoves orders by less, breaking ties by ticker.
func sortMoves(moves []dto.PriceMove, less func(a, b dto.PriceMove) bool) {
	sort.SliceStable(moves, func(i, j int) bool {
		if less(moves[i], moves[j]) {
			return true
		}
		if less(moves[j], moves[i]) {
			return false
		}
		return moves[i].Ticker < moves[j].Ticker
	})
}
