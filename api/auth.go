package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/nordgeld/nordgeld/api/model"
	"github.com/nordgeld/nordgeld/internal/apierror"
)

// Login resolves a user by email and returns a bearer token for the session.
func (a Api) Login(c *gin.Context) {
	var login model2.Login
	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := login.ValidateLogin(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	token, user, err := a.nordgeld.Login(c.Request.Context(), login.Email)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
