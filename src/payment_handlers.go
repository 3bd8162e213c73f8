package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"uems/src/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			err := json.Unmarshal(event.Data.Raw, &cs)
			if err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			ticketId, err := uuid.Parse(cs.Metadata["ticket_id"])
			if err != nil {
				log.Printf("Could not read ticket id from session %s: %s\n", cs.ID, err.Error())
				break
			}
			if err := common.ConfirmTicketPaid(ticketId, cs.ID); err != nil {
				log.Printf("Error confirming ticket %s: %s\n", ticketId.String(), err.Error())
			}
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			err := json.Unmarshal(event.Data.Raw, &cs)
			if err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			ticketId, err := uuid.Parse(cs.Metadata["ticket_id"])
			if err != nil {
				log.Printf("Could not read ticket id from session %s: %s\n", cs.ID, err.Error())
				break
			}
			if err := common.CancelPendingTicket(ticketId); err != nil {
				log.Printf("Error expiring ticket %s: %s\n", ticketId.String(), err.Error())
			}
		default:
			log.Printf("Unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
