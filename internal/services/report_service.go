package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"poolhall/internal/domain"
	"poolhall/internal/state"
)

const dayKey = "2006-01-02"

type BestSeller struct {
	ItemID  string  `json:"itemId"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Revenue float64 `json:"revenue"`
}

type DailyPoint struct {
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	Tables float64 `json:"tables"`
	Retail float64 `json:"retail"`
	Total  float64 `json:"total"`
}

type Summary struct {
	TodayTableRevenue  float64      `json:"todayTableRevenue"`
	TodayRetailRevenue float64      `json:"todayRetailRevenue"`
	TodayTotal         float64      `json:"todayTotal"`
	TotalTableRevenue  float64      `json:"totalTableRevenue"`
	TotalRetailRevenue float64      `json:"totalRetailRevenue"`
	TotalRevenue       float64      `json:"totalRevenue"`
	TodaySessions      int          `json:"todaySessions"`
	TotalSessions      int          `json:"totalSessions"`
	AvgDurationMins    int64        `json:"avgDurationMins"`
	TodayTransactions  int          `json:"todayTransactions"`
	TotalTransactions  int          `json:"totalTransactions"`
	BestSellers        []BestSeller `json:"bestSellers"`
	Daily              []DailyPoint `json:"daily"`
}

type ReportService struct {
	State *state.Store
	Loc   *time.Location
}

func NewReportService(st *state.Store, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{State: st, Loc: loc}
}

func (r *ReportService) Summary() Summary {
	return BuildSummary(r.State.Snapshot(), r.State.Now(), r.Loc)
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

// countedSales drops sales belonging to voided orders.
func countedSales(st domain.AggregateState) []domain.RetailSale {
	voided := map[string]bool{}
	for _, o := range st.Orders {
		if o.Status == domain.OrderVoided {
			voided[o.ID] = true
		}
	}
	out := make([]domain.RetailSale, 0, len(st.RetailSales))
	for _, s := range st.RetailSales {
		if s.OrderID != "" && voided[s.OrderID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// BuildSummary folds the ledger and retail sales into the dashboard
// figures. Days are compared as calendar dates in loc.
func BuildSummary(st domain.AggregateState, now time.Time, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := now.Format(dayKey)
	day := func(t time.Time) string { return t.In(loc).Format(dayKey) }

	var sum Summary
	var todayTables, allTables, todayRetail, allRetail decimal.Decimal
	var durTotal time.Duration
	var durCount int64

	for _, s := range st.Sessions {
		if s.Voided() {
			continue
		}
		amt := decimal.NewFromFloat(s.Amount())
		allTables = allTables.Add(amt)
		sum.TotalSessions++
		if day(s.StartTime) == today {
			todayTables = todayTables.Add(amt)
			sum.TodaySessions++
		}
		if s.EndTime != nil {
			durTotal += s.EndTime.Sub(s.StartTime)
			durCount++
		}
	}
	if durCount > 0 {
		avg := float64(durTotal.Milliseconds()) / float64(durCount)
		sum.AvgDurationMins = int64(math.Round(avg / 60000))
	}

	sales := countedSales(st)
	type agg struct {
		BestSeller
		revenue decimal.Decimal
	}
	var order []string
	byItem := map[string]*agg{}
	for _, s := range sales {
		amt := decimal.NewFromFloat(s.TotalPrice)
		allRetail = allRetail.Add(amt)
		sum.TotalTransactions++
		if day(s.Timestamp) == today {
			todayRetail = todayRetail.Add(amt)
			sum.TodayTransactions++
		}
		a, ok := byItem[s.ItemID]
		if !ok {
			a = &agg{BestSeller: BestSeller{ItemID: s.ItemID, Name: s.ItemName}}
			byItem[s.ItemID] = a
			order = append(order, s.ItemID)
		}
		a.Qty += s.Quantity
		a.revenue = a.revenue.Add(amt)
	}
	best := make([]BestSeller, 0, len(order))
	for _, id := range order {
		a := byItem[id]
		a.Revenue = money(a.revenue)
		best = append(best, a.BestSeller)
	}
	sort.SliceStable(best, func(i, j int) bool { return best[i].Qty > best[j].Qty })
	if len(best) > 5 {
		best = best[:5]
	}
	sum.BestSellers = best

	sum.TodayTableRevenue = money(todayTables)
	sum.TodayRetailRevenue = money(todayRetail)
	sum.TodayTotal = money(todayTables.Add(todayRetail))
	sum.TotalTableRevenue = money(allTables)
	sum.TotalRetailRevenue = money(allRetail)
	sum.TotalRevenue = money(allTables.Add(allRetail))
	sum.Daily = dailyBreakdown(st.Sessions, sales, now, loc)
	return sum
}

// dailyBreakdown buckets the trailing seven calendar days, oldest first.
func dailyBreakdown(sessions []domain.TableSession, sales []domain.RetailSale, now time.Time, loc *time.Location) []DailyPoint {
	tables := map[string]decimal.Decimal{}
	retail := map[string]decimal.Decimal{}
	for _, s := range sessions {
		if s.Voided() {
			continue
		}
		k := s.StartTime.In(loc).Format(dayKey)
		tables[k] = tables[k].Add(decimal.NewFromFloat(s.Amount()))
	}
	for _, s := range sales {
		k := s.Timestamp.In(loc).Format(dayKey)
		retail[k] = retail[k].Add(decimal.NewFromFloat(s.TotalPrice))
	}

	out := make([]DailyPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		k := d.Format(dayKey)
		out = append(out, DailyPoint{
			Date:   k,
			Label:  d.Format("Mon, Jan 2"),
			Tables: money(tables[k]),
			Retail: money(retail[k]),
			Total:  money(tables[k].Add(retail[k])),
		})
	}
	return out
}

// ---------- Record listings ----------

// Window names accepted by the record filters.
const (
	WindowAll       = "all"
	WindowToday     = "today"
	WindowYesterday = "yesterday"
	WindowWeek      = "week"
	WindowMonth     = "month"
	WindowLastMonth = "lastMonth"
)

type RecordFilter struct {
	Search string
	Window string
}

type SessionRecords struct {
	Sessions []domain.TableSession `json:"sessions"`
	Revenue  float64               `json:"revenue"`
}

type OrderRecords struct {
	Orders []domain.Order `json:"orders"`
	Sales  float64        `json:"sales"`
}

func inWindow(t time.Time, window string, now time.Time, loc *time.Location) bool {
	t = t.In(loc)
	switch window {
	case WindowToday:
		return t.Format(dayKey) == now.Format(dayKey)
	case WindowYesterday:
		return t.Format(dayKey) == now.AddDate(0, 0, -1).Format(dayKey)
	case WindowWeek:
		return !t.Before(now.Add(-7 * 24 * time.Hour))
	case WindowMonth:
		return !t.Before(now.Add(-30 * 24 * time.Hour))
	case WindowLastMonth:
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
		end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return !t.Before(start) && t.Before(end)
	default:
		return true
	}
}

// Records lists archived sessions newest first. Voided sessions are listed
// but left out of the revenue figure.
func (r *ReportService) Records(f RecordFilter) SessionRecords {
	snap := r.State.Snapshot()
	now := r.State.Now().In(r.Loc)
	q := strings.ToLower(strings.TrimSpace(f.Search))

	out := SessionRecords{Sessions: []domain.TableSession{}}
	var rev decimal.Decimal
	for i := len(snap.Sessions) - 1; i >= 0; i-- {
		s := snap.Sessions[i]
		if q != "" && !strings.Contains(strings.ToLower(s.TableName), q) {
			continue
		}
		if !inWindow(s.StartTime, f.Window, now, r.Loc) {
			continue
		}
		out.Sessions = append(out.Sessions, s)
		if !s.Voided() {
			rev = rev.Add(decimal.NewFromFloat(s.Amount()))
		}
	}
	out.Revenue = money(rev)
	return out
}

func orderMatches(o domain.Order, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.ID), q) || strings.Contains(strings.ToLower(o.Notes), q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.ItemName), q) {
			return true
		}
	}
	return false
}

// Orders lists orders newest first with the total of the non-voided ones.
func (r *ReportService) Orders(f RecordFilter) OrderRecords {
	snap := r.State.Snapshot()
	now := r.State.Now().In(r.Loc)
	q := strings.ToLower(strings.TrimSpace(f.Search))

	out := OrderRecords{Orders: []domain.Order{}}
	var total decimal.Decimal
	for i := len(snap.Orders) - 1; i >= 0; i-- {
		o := snap.Orders[i]
		if !orderMatches(o, q) || !inWindow(o.Timestamp, f.Window, now, r.Loc) {
			continue
		}
		out.Orders = append(out.Orders, o)
		if o.Status != domain.OrderVoided {
			total = total.Add(decimal.NewFromFloat(o.TotalPrice))
		}
	}
	out.Sales = money(total)
	return out
}
