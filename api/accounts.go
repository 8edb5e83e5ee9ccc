package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nordgeld/nordgeld"
	middleware2 "github.com/nordgeld/nordgeld/api/middleware"
	model2 "github.com/nordgeld/nordgeld/api/model"
	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

func (a Api) CreateAccount(c *gin.Context) {
	var newAccount model2.CreateAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := newAccount.ValidateCreateAccount()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.nordgeld.CreateAccount(c.Request.Context(), newAccount.ToAccount())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetMyAccounts lists the active accounts owned by the session user.
func (a Api) GetMyAccounts(c *gin.Context) {
	identity := middleware2.CurrentIdentity(c)

	accounts, err := a.nordgeld.GetAccountsForOwner(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (a Api) GetAccount(c *gin.Context) {
	id := c.Param("id")
	identity := middleware2.CurrentIdentity(c)

	account, err := a.nordgeld.GetAccount(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !identity.IsAdmin() && account.OwnerID != identity.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account does not belong to the current user"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetAccountTransactions lists the transactions touching an account, newest first.
func (a Api) GetAccountTransactions(c *gin.Context) {
	id := c.Param("id")
	identity := middleware2.CurrentIdentity(c)

	account, err := a.nordgeld.GetAccount(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !identity.IsAdmin() && account.OwnerID != identity.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account does not belong to the current user"})
		return
	}

	transactions, err := a.nordgeld.GetTransactionsForAccount(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	c.JSON(http.StatusOK, nordgeld.SignedAmounts(transactions, []string{id}))
}

func (a Api) DeactivateAccount(c *gin.Context) {
	id := c.Param("id")
	err := a.nordgeld.DeactivateAccount(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated successfully"})
}

func (a Api) GetAllAccounts(c *gin.Context) {
	accounts, err := a.nordgeld.GetAllAccounts(c.Request.Context())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accounts)
}
