package main

import (
	"net/http"

	"ebw/src/booking"
	"ebw/src/types"
	"ebw/src/utils"

	"github.com/gin-gonic/gin"
)

func discountHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/discounts/apply", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.ApplyDiscountCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			discounts := &utils.DiscountsRepo{}
			engine := booking.NewEngine(discounts, discounts)
			quote, err := engine.Recompute(ctx, params.ID, nil, body.Amount, body.Qty, body.Code)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"base_amount":    quote.BaseAmount,
				"automatic":      quote.Automatic,
				"code":           quote.Code,
				"total_discount": quote.TotalDiscount + quote.CodeAmount(),
				"final_amount":   quote.FinalAmount,
				"fee_estimate":   quote.FeeEstimate,
			})
		}).
		POST("/events/:id/quote", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Amount float64 `json:"amount" binding:"required"`
				Qty    int     `json:"qty" binding:"required,min=1"`
				Code   string  `json:"code,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			discounts := &utils.DiscountsRepo{}
			engine := booking.NewEngine(discounts, discounts)
			quote, err := engine.Recompute(ctx, params.ID, nil, body.Amount, body.Qty, body.Code)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": quote})
		})
	return g
}
