package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"ebw/src/booking"
	"ebw/src/common"
	"ebw/src/db"
	"ebw/src/lib"
	"ebw/src/models"
	"ebw/src/types"
	"ebw/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var redirectTimers = lib.NewRedirectTimers(func(bookingID uint) {
	log.Printf("[Redirect] Redirect window elapsed for booking [%d]\n", bookingID)
})

func journeyServices() booking.Deps {
	discounts := &utils.DiscountsRepo{}
	return booking.Deps{
		Pricing:   booking.NewCatalog(&utils.EventsRepo{}),
		Discounts: booking.NewEngine(discounts, discounts),
		Validator: &utils.ParticipantsChecker{},
		Checkout:  utils.NewCheckoutService(),
		Store:     &utils.BookingsRepo{},
		Notify:    &common.MailDispatcher{},
		Redirects: redirectTimers,
		Expiry:    &utils.ExpiryTimers{},
	}
}

func statusForJourneyError(err error) int {
	var gate *booking.GateError
	var pfe *booking.ParticipantFieldError
	switch {
	case errors.As(err, &gate):
		return http.StatusConflict
	case errors.Is(err, booking.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrPricingTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &pfe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func toParticipant(p types.BookingParticipant) booking.Participant {
	out := booking.Participant{
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Custom:     p.CustomData,
	}
	if p.DateOfBirth != nil {
		if dob, err := time.Parse("2006-01-02", *p.DateOfBirth); err == nil {
			out.DateOfBirth = &dob
		}
	}
	return out
}

// replayBooking runs the submitted wizard payload through the journey
// state machine from the top, so every step guard holds no matter what
// the client claims it already validated.
func replayBooking(ctx *gin.Context, eventID uint, body *types.CreateBookingRequestBody) (*booking.Outcome, error) {
	deps := journeyServices()
	repo := &utils.EventsRepo{}
	event, err := repo.FetchEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	userId := ctx.GetUint("id")
	membership := types.MembershipClass(ctx.GetString("membership"))

	var resume *booking.ResumeState
	if body.ResumeBookingID != nil {
		resume, err = booking.LoadResume(ctx, deps.Store, *body.ResumeBookingID, userId, 0)
		if err != nil {
			return nil, err
		}
		if !resume.CanResume {
			return nil, booking.ErrNotResumable
		}
	}

	j, err := booking.NewJourney(ctx, deps, booking.Params{
		Event:         event,
		UserID:        userId,
		Authenticated: userId > 0,
		Membership:    membership,
		Resume:        resume,
	})
	if err != nil {
		return nil, err
	}

	if event.IsMultiSection() {
		sel := make([]booking.SectionSelection, 0, len(body.Sections))
		for _, s := range body.Sections {
			sel = append(sel, booking.SectionSelection{SectionID: s.SectionID, PricingID: s.PricingID, Qty: s.Qty})
		}
		if err := j.SelectSections(sel); err != nil {
			return nil, err
		}
	} else {
		tierID := booking.DefaultTierID
		if body.PricingID != nil {
			tierID = *body.PricingID
		}
		if err := j.SelectTier(tierID, body.Qty); err != nil {
			return nil, err
		}
	}
	if err := j.SetContact(booking.Contact{
		FirstName:       body.Contact.FirstName,
		MiddleName:      body.Contact.MiddleName,
		LastName:        body.Contact.LastName,
		Email:           body.Contact.Email,
		Phone:           body.Contact.Phone,
		JoinMailingList: body.Contact.JoinMailingList,
	}); err != nil {
		return nil, err
	}
	for i, p := range body.Participants {
		if err := j.SetParticipant(i, toParticipant(p)); err != nil {
			return nil, err
		}
	}
	for j.StepName() != booking.StepReview {
		if err := j.Next(ctx); err != nil {
			return nil, err
		}
	}
	if body.DiscountCode != "" {
		if err := j.ApplyCode(ctx, body.DiscountCode); err != nil {
			return nil, err
		}
	}
	j.SetAgreedToTerms(body.AgreedToTerms)
	return j.Complete(ctx)
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			outcome, err := replayBooking(ctx, params.ID, &body)
			if err != nil {
				log.Printf("Booking failed for event [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(statusForJourneyError(err), gin.H{"error": err.Error()})
				return
			}
			resp := gin.H{
				"id":     outcome.BookingID,
				"status": outcome.Classification,
				"amount": outcome.AmountDue,
			}
			if outcome.CheckoutURL != "" {
				resp["checkout_url"] = outcome.CheckoutURL
			}
			if outcome.RedirectAfter > 0 {
				resp["redirect_after_seconds"] = int(outcome.RedirectAfter.Seconds())
			}
			ctx.JSON(http.StatusCreated, resp)
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var bookings []models.Booking
			err := conn.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: userId}).
				Preload("Event").
				Order("created_at DESC").
				Limit(20).
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			repo := &utils.BookingsRepo{}
			b, err := repo.FetchBooking(ctx, params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if b.UserID != userId {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": b})
		}).
		GET("/bookings/:id/resume", func(ctx *gin.Context) {
			var params types.ResumeBookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := ctx.ShouldBindQuery(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			repo := &utils.BookingsRepo{}
			rs, err := booking.LoadResume(ctx, repo, params.ID, userId, params.Step)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rs})
		}).
		POST("/bookings/:id/abandon", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			redirectTimers.CancelRedirect(params.ID)
			ctx.Status(http.StatusOK)
		})
	return g
}
