package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/payments"
	"github.com/iwishbag/tariffbox/internal/quotes"
)

// SetupRoutes configures the Gin engine with all API routes.
func SetupRoutes(router gin.IRouter, q database.Querier, resolver *customs.Resolver, pricer *quotes.Pricer, reconciler *payments.Reconciler) {
	ruleHandler := NewCustomsRuleHandler(q, resolver.Cache())
	countryHandler := NewCountryRateHandler(q)
	quoteHandler := NewQuoteHandler(q, pricer, resolver)
	paymentHandler := NewPaymentHandler(q, reconciler)

	router.Use(APIKeyAuth(q))

	ruleGroup := router.Group("/customs-rules")
	{
		ruleGroup.POST("", ruleHandler.CreateRule)
		ruleGroup.GET("", ruleHandler.ListRules)
		ruleGroup.GET("/:id", ruleHandler.GetRule)
		ruleGroup.PUT("/:id", ruleHandler.UpdateRule)
		ruleGroup.DELETE("/:id", ruleHandler.DeleteRule)
	}

	countryGroup := router.Group("/country-rates")
	{
		countryGroup.GET("", countryHandler.ListRates)
		countryGroup.GET("/:code", countryHandler.GetRate)
		countryGroup.PUT("/:code", countryHandler.UpsertRate)
	}

	quoteGroup := router.Group("/quotes")
	{
		quoteGroup.GET("/:id", quoteHandler.GetQuote)
		quoteGroup.POST("/:id/price", quoteHandler.PriceQuote)
		quoteGroup.GET("/:id/payments", paymentHandler.ListQuoteLedger)
	}

	router.POST("/resolve", quoteHandler.Resolve)
	router.POST("/payments/reconcile", paymentHandler.ReconcilePayment)
}
