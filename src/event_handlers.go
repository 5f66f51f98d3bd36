package main

import (
	"errors"
	"log"
	"net/http"

	"ebw/src/booking"
	"ebw/src/db"
	"ebw/src/middlewares"
	"ebw/src/models"
	"ebw/src/types"
	"ebw/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func publicEventRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.Use(middlewares.OptionalAuthMiddleware)
	apiv1.
		GET("/events", func(ctx *gin.Context) {
			conn := db.GetDb()
			var events []models.Event
			err := conn.
				Model(&models.Event{}).
				Where(&models.Event{Status: types.EVENT_PUBLISHED}).
				Order("starts_at ASC").
				Limit(100).
				Find(&events).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			repo := &utils.EventsRepo{}
			event, err := repo.FetchEvent(ctx, params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			oracle := booking.NewOracle(event)
			sectionStates := map[uint]types.SectionState{}
			for _, s := range event.Sections {
				if st, ok := oracle.SectionState(s.ID); ok {
					sectionStates[s.ID] = st
				}
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":           event,
				"event_state":    oracle.EventState(),
				"section_states": sectionStates,
				"sold_out":       oracle.SoldOut(),
			})
		}).
		GET("/events/:id/tiers", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			repo := &utils.EventsRepo{}
			event, err := repo.FetchEvent(ctx, params.ID)
			if err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			membership := types.MembershipClass(ctx.GetString("membership"))
			catalog := booking.NewCatalog(repo)
			tiers, err := catalog.ResolveTiers(ctx, event, membership)
			if err != nil {
				if errors.Is(err, booking.ErrPricingTimeout) {
					ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tiers, "count": len(tiers)})
		}).
		POST("/events/:id/subscribe", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Email string `json:"email" binding:"required,email"`
				Name  string `json:"name,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			repo := &utils.BookingsRepo{}
			if err := repo.SubscribeMailingList(ctx, params.ID, body.Email, body.Name); err != nil {
				log.Printf("Error subscribing %s to event [%d]: %s\n", body.Email, params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusCreated)
		})
	return apiv1
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			eventId, err := utils.CreateNewEvent(&body, userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": eventId})
		}).
		POST("/events/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := utils.PublishEvent(params.ID); err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/events/:id/close", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := utils.UpdateEventStatus(params.ID, types.EVENT_ENTRY_CLOSED, types.EVENT_PUBLISHED); err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
