/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nordgeld

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/model"
)

// spendingKeywords maps the fixed spending categories to the substrings
// recognized in transaction descriptions. Descriptions that match nothing fall
// into "Other".
var spendingKeywords = []struct {
	name     string
	keywords []string
}{
	{"Food & Groceries", []string{"grocery", "groceries", "supermarket", "restaurant", "food", "lidl", "aldi", "rewe", "edeka"}},
	{"Housing", []string{"rent", "miete", "mortgage", "housing"}},
	{"Transportation", []string{"transport", "fuel", "gas station", "ticket", "bahn", "parking"}},
	{"Utilities", []string{"electricity", "water", "internet", "phone", "utility", "strom"}},
	{"Income", []string{"salary", "gehalt", "wage", "income", "bonus"}},
	{"Entertainment", []string{"cinema", "netflix", "spotify", "concert", "entertainment", "game"}},
}

// stopWords are tokens never surfaced as keywords, regardless of frequency.
var stopWords = map[string]bool{
	"from": true, "with": true, "this": true, "that": true, "into": true,
	"your": true, "their": true, "über": true, "nach": true, "eine": true,
}

// SignedAmounts rewrites a transaction list into the perspective of a set of
// owned accounts: credits into an owned account stay positive, debits out of
// one flip negative. Internal moves between two owned accounts net to the
// outgoing leg.
func SignedAmounts(transactions []model.Transaction, ownedAccountIDs []string) []model.Transaction {
	owned := map[string]bool{}
	for _, id := range ownedAccountIDs {
		owned[id] = true
	}

	signed := make([]model.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		t := txn
		if owned[t.Source] {
			t.Amount = -math.Abs(t.Amount)
		} else {
			t.Amount = math.Abs(t.Amount)
		}
		signed = append(signed, t)
	}
	return signed
}

// Analyze derives display-only aggregates from a signed transaction list.
// It performs no persistence and has no side effects.
func (n Nordgeld) Analyze(transactions []model.Transaction, now time.Time) model.Analytics {
	monthlyBudget := float64(config.DEFAULT_MONTHLY_BUDGET)
	if cnf, err := config.Fetch(); err == nil {
		monthlyBudget = cnf.Planner.MonthlyBudget
	}

	analytics := model.Analytics{}

	for _, txn := range transactions {
		amount := txn.Amount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}
		if amount > 0 {
			analytics.Income += amount
		} else if amount < 0 {
			analytics.Expenditure += -amount
		}
	}
	analytics.Net = analytics.Income - analytics.Expenditure

	analytics.Categories = inferSpendingCategories(transactions)
	analytics.Keywords = extractKeywords(transactions)
	analytics.Budget = monthlyBudgetStatus(transactions, monthlyBudget, now)

	return analytics
}

// inferSpendingCategories matches descriptions against the fixed category
// keywords and returns the top 5 by total absolute amount.
func inferSpendingCategories(transactions []model.Transaction) []model.SpendingCategory {
	totals := map[string]*model.SpendingCategory{}
	order := []string{}

	record := func(name string, amount float64) {
		entry, ok := totals[name]
		if !ok {
			entry = &model.SpendingCategory{Name: name}
			totals[name] = entry
			order = append(order, name)
		}
		entry.Total += math.Abs(amount)
		entry.Count++
	}

	for _, txn := range transactions {
		description := strings.ToLower(txn.Description)
		matched := false
		for _, category := range spendingKeywords {
			for _, keyword := range category.keywords {
				if strings.Contains(description, keyword) {
					record(category.name, txn.Amount)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			record("Other", txn.Amount)
		}
	}

	categories := make([]model.SpendingCategory, 0, len(order))
	for _, name := range order {
		categories = append(categories, *totals[name])
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Total > categories[j].Total
	})
	if len(categories) > 5 {
		categories = categories[:5]
	}
	return categories
}

// extractKeywords tokenizes descriptions on whitespace and returns the top 10
// tokens as "#token", descending by frequency. Tokens of length 3 or less and
// stop-words are dropped. Ties keep first-encountered order.
func extractKeywords(transactions []model.Transaction) []string {
	counts := map[string]int{}
	order := []string{}

	for _, txn := range transactions {
		for _, token := range strings.Fields(strings.ToLower(txn.Description)) {
			token = strings.Trim(token, ".,;:!?\"'()")
			if utf8.RuneCountInString(token) <= 3 || stopWords[token] {
				continue
			}
			if _, seen := counts[token]; !seen {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}

	keywords := make([]string, 0, len(order))
	for _, token := range order {
		keywords = append(keywords, "#"+token)
	}
	return keywords
}

// monthlyBudgetStatus sums the current calendar month's expenditure against
// the fixed budget. Remaining never goes negative.
func monthlyBudgetStatus(transactions []model.Transaction, budget float64, now time.Time) model.BudgetStatus {
	var posted float64
	for _, txn := range transactions {
		if txn.Amount >= 0 {
			continue
		}
		if txn.CreatedAt.Year() == now.Year() && txn.CreatedAt.Month() == now.Month() {
			posted += -txn.Amount
		}
	}
	return model.BudgetStatus{
		Budget:    budget,
		Posted:    posted,
		Remaining: math.Max(0, budget-posted),
	}
}
