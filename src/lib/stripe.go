package lib

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// StripeCheckout creates hosted checkout sessions for pending bookings.
// Amounts are charged from our own computed total, so line items carry
// price_data instead of preconfigured Stripe prices.
type StripeCheckout struct{}

func (s *StripeCheckout) CreateCheckoutSession(ctx context.Context, bookingID uint, eventID uint, qty int, amount float64, description string) (string, string, error) {
	sc := GetStripeClient()
	appHost := os.Getenv("APP_HOST")
	successUrl := fmt.Sprintf("%s/checkout/callback/success", appHost)
	cancelUrl := fmt.Sprintf("%s/checkout/callback/cancel", appHost)
	metadata := map[string]string{
		"booking_id": fmt.Sprintf("%d", bookingID),
		"event_id":   fmt.Sprintf("%d", eventID),
	}
	piParams := &stripe.CheckoutSessionCreatePaymentIntentDataParams{}
	for k, v := range metadata {
		piParams.AddMetadata(k, v)
	}
	unitAmount := int64(math.Round(amount * 100))
	createParams := stripe.CheckoutSessionCreateParams{
		SuccessURL:        stripe.String(successUrl),
		CancelURL:         stripe.String(cancelUrl),
		UIMode:            stripe.String("hosted"),
		Mode:              stripe.String("payment"),
		PaymentIntentData: piParams,
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		AfterExpiration: &stripe.CheckoutSessionCreateAfterExpirationParams{
			Recovery: &stripe.CheckoutSessionCreateAfterExpirationRecoveryParams{
				Enabled: stripe.Bool(true),
			},
		},
		Metadata: metadata,
	}
	checkoutSession, err := sc.V1CheckoutSessions.Create(ctx, &createParams)
	if err != nil {
		log.Printf("[Stripe] CreateCheckoutSession failed for booking [%d]: %s\n", bookingID, err.Error())
		return "", "", err
	}
	log.Printf("[Stripe] CheckoutSessionID: %s\n", checkoutSession.ID)
	return checkoutSession.ID, checkoutSession.URL, nil
}
