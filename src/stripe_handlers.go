package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"ebw/src/common"
	"ebw/src/lib"
	"ebw/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading webhook body: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			log.Printf("[CheckoutSession] ID: %s %s\n", cs.ID, cs.Status)
			bookingId, err := utils.ConfirmBookingPayment(cs.ID, float64(cs.AmountTotal)/100, string(cs.Currency))
			if err != nil {
				log.Printf("[Stripe] Could not settle session [%s]: %s\n", cs.ID, err.Error())
				break
			}
			dispatcher := &common.MailDispatcher{}
			dispatcher.BookingConfirmed(bookingId)
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			bookingId, ok := lib.LookupCheckoutSession(ctx, cs.ID)
			if !ok {
				if raw, found := cs.Metadata["booking_id"]; found {
					if id, err := strconv.Atoi(raw); err == nil {
						bookingId = uint(id)
						ok = true
					}
				}
			}
			if !ok {
				log.Printf("[Stripe] No booking found for expired session [%s]\n", cs.ID)
				break
			}
			go utils.ExpireBooking(bookingId)
		default:
			log.Printf("[Stripe] Unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
