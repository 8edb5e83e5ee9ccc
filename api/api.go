package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nordgeld/nordgeld"
	"github.com/nordgeld/nordgeld/api/middleware"
	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/internal/cache"
)

type Api struct {
	nordgeld *nordgeld.Nordgeld
	router   *gin.Engine
	cache    cache.Cache
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/auth/login", a.Login)

	authorized := router.Group("/", middleware.SessionAuthMiddleware())
	authorized.GET("/accounts", a.GetMyAccounts)
	authorized.GET("/accounts/:id", a.GetAccount)
	authorized.GET("/accounts/:id/transactions", a.GetAccountTransactions)
	authorized.POST("/transfers", a.CreateTransfer)
	authorized.GET("/dashboard", a.GetDashboard)
	authorized.GET("/analytics", a.GetAnalytics)

	admin := authorized.Group("/", middleware.AdminOnly())
	admin.POST("/accounts", a.CreateAccount)
	admin.DELETE("/accounts/:id", a.DeactivateAccount)
	admin.POST("/admin/deposits", a.CreateDeposit)
	admin.GET("/admin/users", a.GetAllUsers)
	admin.POST("/admin/users", a.CreateUser)
	admin.DELETE("/admin/users/:id", a.DeactivateUser)
	admin.GET("/admin/accounts", a.GetAllAccounts)
	admin.GET("/admin/transactions", a.GetAllTransactions)
	admin.POST("/admin/sample-data", a.GenerateSampleData)

	return a.router
}

func NewAPI(n *nordgeld.Nordgeld) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	newCache, err := cache.NewCache()
	if err != nil {
		logrus.Warnf("dashboard cache unavailable: %v", err)
		newCache = nil
	}

	return &Api{nordgeld: n, router: r, cache: newCache}
}
