package model

// Category is one of the six fixed account groupings used by the overview and
// planner views.
type Category string

const (
	CategoryChecking   Category = "checking"
	CategorySavings    Category = "savings"
	CategoryInvestment Category = "investment"
	CategorySecurities Category = "securities"
	CategoryLoan       Category = "loan"
	CategoryAsset      Category = "asset"
)

// Categories lists the buckets in classification order.
var Categories = []Category{
	CategoryChecking,
	CategorySavings,
	CategoryInvestment,
	CategorySecurities,
	CategoryLoan,
	CategoryAsset,
}

// CategoryBuckets partitions an account list into the six categories. Every
// account lands in exactly one bucket.
type CategoryBuckets map[Category][]Account

// Totals holds the per-category balance sums and the grand total, expressed in
// EUR after the fixed-rate USD conversion.
type Totals struct {
	ByCategory map[Category]float64 `json:"by_category"`
	Grand      float64              `json:"grand_total"`
}

// Forecast is the planner's short-horizon projection for the main account. The
// growth factor is a placeholder business rule, not a prediction; Predictive is
// always false so the UI can flag it as such.
type Forecast struct {
	AccountID      string  `json:"account_id"`
	CurrentBalance float64 `json:"current_balance"`
	Projected      float64 `json:"projected_balance"`
	HorizonMonths  int     `json:"horizon_months"`
	Predictive     bool    `json:"predictive"`
}

// SpendingCategory accumulates the per-category spend derived from transaction
// descriptions.
type SpendingCategory struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// BudgetStatus tracks the current calendar month against the fixed budget.
type BudgetStatus struct {
	Budget    float64 `json:"budget"`
	Posted    float64 `json:"posted"`
	Remaining float64 `json:"remaining"`
}

// Analytics is the display-only aggregate over a transaction list.
type Analytics struct {
	Income      float64            `json:"income"`
	Expenditure float64            `json:"expenditure"`
	Net         float64            `json:"net"`
	Categories  []SpendingCategory `json:"categories"`
	Keywords    []string           `json:"keywords"`
	Budget      BudgetStatus       `json:"budget"`
}
