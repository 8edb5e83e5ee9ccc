package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nordgeld/nordgeld"
	middleware2 "github.com/nordgeld/nordgeld/api/middleware"
	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

const dashboardCacheTTL = time.Minute

// DashboardResponse is the aggregate overview for one user: the categorized
// accounts, per-category totals and the planner forecast.
type DashboardResponse struct {
	Buckets  model.CategoryBuckets `json:"buckets"`
	Totals   model.Totals          `json:"totals"`
	Forecast *model.Forecast       `json:"forecast"`
}

// GetDashboard returns the categorized account overview for the session user.
// Responses are cached briefly per user; settlement does not invalidate the
// cache, so the view can lag by up to the TTL.
func (a Api) GetDashboard(c *gin.Context) {
	identity := middleware2.CurrentIdentity(c)
	cacheKey := fmt.Sprintf("dashboard:%s", identity.UserID)

	if a.cache != nil {
		var cached DashboardResponse
		if err := a.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Buckets != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	accounts, err := a.nordgeld.GetAccountsForOwner(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	buckets := a.nordgeld.CategorizeAccounts(accounts)
	response := DashboardResponse{
		Buckets:  buckets,
		Totals:   a.nordgeld.AggregateBuckets(buckets),
		Forecast: a.nordgeld.ForecastBalance(buckets),
	}

	if a.cache != nil {
		_ = a.cache.Set(c.Request.Context(), cacheKey, response, dashboardCacheTTL)
	}

	c.JSON(http.StatusOK, response)
}

// GetAnalytics derives the spending analytics over every transaction touching
// the session user's accounts.
func (a Api) GetAnalytics(c *gin.Context) {
	identity := middleware2.CurrentIdentity(c)

	accounts, err := a.nordgeld.GetAccountsForOwner(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	accountIDs := make([]string, 0, len(accounts))
	for _, account := range accounts {
		accountIDs = append(accountIDs, account.AccountID)
	}

	seen := map[string]bool{}
	var transactions []model.Transaction
	for _, id := range accountIDs {
		accountTxns, err := a.nordgeld.GetTransactionsForAccount(c.Request.Context(), id)
		if err != nil {
			c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		for _, txn := range accountTxns {
			if seen[txn.TransactionID] {
				continue
			}
			seen[txn.TransactionID] = true
			transactions = append(transactions, txn)
		}
	}

	signed := nordgeld.SignedAmounts(transactions, accountIDs)
	c.JSON(http.StatusOK, a.nordgeld.Analyze(signed, time.Now()))
}
