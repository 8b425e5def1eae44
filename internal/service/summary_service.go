package service

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-sync/internal/record"
)

type SummaryService struct {
	session *SessionService
}

func NewSummaryService(session *SessionService) *SummaryService {
	return &SummaryService{session: session}
}

// Summary aggregates the signed-in user's current view.
func (s *SummaryService) Summary(_ context.Context) (Summary, error) {
	repo, err := s.session.Repository()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(repo.Snapshot()), nil
}

// Summarize totals records overall, per expense category (largest first) and per
// calendar month (oldest first).
func Summarize(records []record.Record) Summary {
	summary := Summary{
		Count:      len(records),
		ByCategory: []CategoryTotal{},
		ByMonth:    []MonthTotal{},
	}
	categories := map[string]decimal.Decimal{}
	months := map[string]*MonthTotal{}

	for _, r := range records {
		month := r.Date.Format("2006-01")
		mt, ok := months[month]
		if !ok {
			mt = &MonthTotal{Month: month}
			months[month] = mt
		}

		switch r.Kind {
		case record.KindIncome:
			summary.Income = summary.Income.Add(r.Amount)
			mt.Income = mt.Income.Add(r.Amount)
		case record.KindExpense:
			summary.Expense = summary.Expense.Add(r.Amount)
			mt.Expense = mt.Expense.Add(r.Amount)
			categories[r.Category] = categories[r.Category].Add(r.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)

	for category, total := range categories {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Total: total})
	}
	slices.SortFunc(summary.ByCategory, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})

	for _, mt := range months {
		summary.ByMonth = append(summary.ByMonth, *mt)
	}
	slices.SortFunc(summary.ByMonth, func(a, b MonthTotal) int {
		return strings.Compare(a.Month, b.Month)
	})
	return summary
}
