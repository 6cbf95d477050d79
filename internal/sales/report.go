package sales

import (
	"context"
	"sort"
)

// TitleTotals aggregates a single title's sales.
type TitleTotals struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DayTotals aggregates one calendar day (UTC, formatted 2006-01-02).
type DayTotals struct {
	Day     string  `json:"day"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Report summarizes a slice of the ledger.
type Report struct {
	SaleCount     int           `json:"sale_count"`
	TotalRevenue  float64       `json:"total_revenue"`
	TotalQuantity int           `json:"total_quantity"`
	AverageSale   float64       `json:"average_sale"`
	BiggestSale   *Sale         `json:"biggest_sale,omitempty"`
	ByTitle       []TitleTotals `json:"by_title"`
	ByDay         []DayTotals   `json:"by_day"`
	TopSellers    []TitleTotals `json:"top_sellers"`
}

// Report builds the sales report for the period.
func (l *Ledger) Report(ctx context.Context, p Period) (Report, error) {
	list, err := l.store.List(ctx, p)
	if err != nil {
		return Report{}, err
	}
	return buildReport(list), nil
}

func buildReport(list []Sale) Report {
	r := Report{SaleCount: len(list)}
	if len(list) == 0 {
		r.ByTitle = []TitleTotals{}
		r.ByDay = []DayTotals{}
		r.TopSellers = []TitleTotals{}
		return r
	}

	byTitle := make(map[string]*TitleTotals)
	byDay := make(map[string]*DayTotals)
	biggest := list[0]

	for _, s := range list {
		r.TotalRevenue += s.Total
		r.TotalQuantity += s.Quantity
		if s.Total > biggest.Total {
			biggest = s
		}

		tt, ok := byTitle[s.MovieTitle]
		if !ok {
			tt = &TitleTotals{Title: s.MovieTitle}
			byTitle[s.MovieTitle] = tt
		}
		tt.Quantity += s.Quantity
		tt.Revenue += s.Total

		day := s.SoldAt.UTC().Format("2006-01-02")
		dt, ok := byDay[day]
		if !ok {
			dt = &DayTotals{Day: day}
			byDay[day] = dt
		}
		dt.Count++
		dt.Revenue += s.Total
	}

	r.AverageSale = r.TotalRevenue / float64(r.SaleCount)
	b := biggest
	r.BiggestSale = &b

	r.ByTitle = make([]TitleTotals, 0, len(byTitle))
	for _, tt := range byTitle {
		r.ByTitle = append(r.ByTitle, *tt)
	}
	sort.Slice(r.ByTitle, func(i, j int) bool {
		if r.ByTitle[i].Revenue != r.ByTitle[j].Revenue {
			return r.ByTitle[i].Revenue > r.ByTitle[j].Revenue
		}
		return r.ByTitle[i].Title < r.ByTitle[j].Title
	})

	r.ByDay = make([]DayTotals, 0, len(byDay))
	for _, dt := range byDay {
		r.ByDay = append(r.ByDay, *dt)
	}
	sort.Slice(r.ByDay, func(i, j int) bool { return r.ByDay[i].Day < r.ByDay[j].Day })

	top := make([]TitleTotals, len(r.ByTitle))
	copy(top, r.ByTitle)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].Title < top[j].Title
	})
	if len(top) > 3 {
		top = top[:3]
	}
	r.TopSellers = top

	return r
}
