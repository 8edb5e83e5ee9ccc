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
	"strings"

	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/model"
)

// categoryKeywords maps each bucket to the substrings recognized in the
// free-text account type label. German and English labels both occur in the
// data, so both are matched.
var categoryKeywords = map[model.Category][]string{
	model.CategoryChecking:   {"girokonto", "checking", "current"},
	model.CategorySavings:    {"sparkonto", "savings", "tagesgeld"},
	model.CategoryInvestment: {"investment", "termgeld", "fixed deposit"},
	model.CategorySecurities: {"depot", "securities", "portfolio"},
	model.CategoryLoan:       {"kredit", "loan", "credit"},
	model.CategoryAsset:      {"asset", "immobilie", "fahrzeug"},
}

// classifyAccount picks the bucket for one account. Keyword buckets are probed
// in fixed order and the first match wins. A negative balance forces loan at
// the loan probe, before asset keywords are considered. Anything left over
// goes to checking.
func classifyAccount(account model.Account) model.Category {
	label := strings.ToLower(account.Type)
	for _, category := range model.Categories {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(label, keyword) {
				return category
			}
		}
		if category == model.CategoryLoan && model.SafeBalance(account.Balance) < 0 {
			return model.CategoryLoan
		}
	}
	return model.CategoryChecking
}

// CategorizeAccounts partitions accounts into the six planner buckets. Every
// account lands in exactly one bucket; all six keys are always present.
func (n Nordgeld) CategorizeAccounts(accounts []model.Account) model.CategoryBuckets {
	buckets := model.CategoryBuckets{}
	for _, category := range model.Categories {
		buckets[category] = []model.Account{}
	}
	for _, account := range accounts {
		category := classifyAccount(account)
		buckets[category] = append(buckets[category], account)
	}
	return buckets
}

// AggregateBuckets sums each bucket in EUR. USD balances convert at the fixed
// configured rate; other currencies count at face value. Non-finite balances
// count as zero.
func (n Nordgeld) AggregateBuckets(buckets model.CategoryBuckets) model.Totals {
	usdToEur := config.DEFAULT_USD_TO_EUR
	if cnf, err := config.Fetch(); err == nil {
		usdToEur = cnf.Rates.UsdToEur
	}

	totals := model.Totals{ByCategory: map[model.Category]float64{}}
	for _, category := range model.Categories {
		var sum float64
		for _, account := range buckets[category] {
			balance := model.SafeBalance(account.Balance)
			if account.Currency == "USD" {
				balance = balance * usdToEur
			}
			sum += balance
		}
		totals.ByCategory[category] = sum
		totals.Grand += sum
	}
	return totals
}

// ForecastBalance projects the main account balance over the configured
// horizon. The main account is the first checking account, or failing that the
// first account of any bucket in classification order. The projection is a
// flat growth factor, not compounded, and is never predictive.
func (n Nordgeld) ForecastBalance(buckets model.CategoryBuckets) *model.Forecast {
	growthFactor := config.DEFAULT_GROWTH_FACTOR
	horizonMonths := config.DEFAULT_HORIZON_MONTHS
	if cnf, err := config.Fetch(); err == nil {
		growthFactor = cnf.Planner.GrowthFactor
		horizonMonths = cnf.Planner.HorizonMonths
	}

	var main *model.Account
	for _, category := range model.Categories {
		if len(buckets[category]) > 0 {
			main = &buckets[category][0]
			break
		}
	}
	if main == nil {
		return nil
	}

	balance := model.SafeBalance(main.Balance)
	return &model.Forecast{
		AccountID:      main.AccountID,
		CurrentBalance: balance,
		Projected:      balance * growthFactor,
		HorizonMonths:  horizonMonths,
		Predictive:     false,
	}
}
