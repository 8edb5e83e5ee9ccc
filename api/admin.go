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
package api

import (
	"fmt"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"

	"github.com/nordgeld/nordgeld"
	model2 "github.com/nordgeld/nordgeld/api/model"
	"github.com/nordgeld/nordgeld/internal/apierror"
	"github.com/nordgeld/nordgeld/model"
)

func (a Api) GetAllUsers(c *gin.Context) {
	users, err := a.nordgeld.GetAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a Api) CreateUser(c *gin.Context) {
	var newUser model2.CreateUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := newUser.ValidateCreateUser(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.nordgeld.CreateUser(c.Request.Context(), newUser.ToUser())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) DeactivateUser(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /admin/users/:id"})
		return
	}

	if err := a.nordgeld.DeactivateUser(c.Request.Context(), id); err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

var sampleAccountTypes = []string{"Girokonto", "Sparkonto", "Depot", "Kredit"}

var sampleDescriptions = []string{
	"REWE supermarket grocery run",
	"Monthly rent Miete payment",
	"Monthly ticket public transport",
	"Electricity utilities bill",
	"Cinema tickets entertainment",
}

// GenerateSampleData seeds a demo user with a handful of accounts and
// transactions so a fresh install has something to show. Idempotency is not a
// goal; calling it twice creates a second demo set.
func (a Api) GenerateSampleData(c *gin.Context) {
	ctx := c.Request.Context()

	demoUser, err := a.nordgeld.CreateUser(ctx, model.User{
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Role:      model.RoleCustomer,
	})
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	accounts := make([]model.Account, 0, len(sampleAccountTypes))
	for _, accountType := range sampleAccountTypes {
		account, err := a.nordgeld.CreateAccount(ctx, model.Account{
			Type:     accountType,
			Name:     fmt.Sprintf("%s %s", demoUser.FirstName, accountType),
			Currency: "EUR",
			OwnerID:  demoUser.UserID,
		})
		if err != nil {
			c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		accounts = append(accounts, account)
	}

	// Fund the checking account first so the demo transfers can settle.
	if _, err := a.nordgeld.AdminDeposit(ctx, nordgeld.DepositRequest{
		ToAccountID: accounts[0].AccountID,
		Amount:      gofakeit.Price(2500, 6000),
		Description: "salary income",
	}); err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	for _, description := range sampleDescriptions {
		if _, err := a.nordgeld.Transfer(ctx, nordgeld.TransferRequest{
			FromAccountID: accounts[0].AccountID,
			ToAccountID:   accounts[1].AccountID,
			Amount:        gofakeit.Price(10, 250),
			Description:   description,
		}); err != nil {
			c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Sample data generated",
		"user":     demoUser,
		"accounts": accounts,
	})
}
