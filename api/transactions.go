package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	middleware2 "github.com/nordgeld/nordgeld/api/middleware"
	model2 "github.com/nordgeld/nordgeld/api/model"
	"github.com/nordgeld/nordgeld/internal/apierror"
)

// CreateTransfer settles a balance transfer. Customers may only move money
// out of their own accounts; admins may move from any account.
func (a Api) CreateTransfer(c *gin.Context) {
	var newTransfer model2.CreateTransfer
	if err := c.ShouldBindJSON(&newTransfer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := newTransfer.ValidateCreateTransfer()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	identity := middleware2.CurrentIdentity(c)
	if !identity.IsAdmin() {
		source, err := a.nordgeld.GetAccount(c.Request.Context(), newTransfer.FromAccountID)
		if err != nil {
			c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		if source.OwnerID != identity.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Source account does not belong to the current user"})
			return
		}
	}

	resp, err := a.nordgeld.Transfer(c.Request.Context(), newTransfer.ToTransferRequest())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateDeposit applies an administrative deposit.
func (a Api) CreateDeposit(c *gin.Context) {
	var newDeposit model2.CreateDeposit
	if err := c.ShouldBindJSON(&newDeposit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := newDeposit.ValidateCreateDeposit()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.nordgeld.AdminDeposit(c.Request.Context(), newDeposit.ToDepositRequest())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetAllTransactions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, err := a.nordgeld.GetAllTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transactions)
}
