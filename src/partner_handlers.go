package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"
	"uems/src/common"
	"uems/src/db"
	"uems/src/lib"
	"uems/src/models"
	"uems/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func partnerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/partners", func(ctx *gin.Context) {
			var body struct {
				Name string `json:"name" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			settings := common.GetSettings()
			partner := models.ExternalPartner{
				UserID:         userId,
				Slug:           slug.Make(body.Name),
				CommissionRate: settings.DefaultCommissionRate,
			}
			db := db.GetDb()
			if err := db.Create(&partner).Error; err != nil {
				log.Printf("Error creating partner: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not create partner"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": partner})
		}).
		GET("/partners/:id/settlement", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query types.SettlementQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			from, err := time.Parse("2006-01-02", query.From)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
				return
			}
			to, err := time.Parse("2006-01-02", query.To)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
				return
			}
			cacheKey := lib.SettlementKey(params.ID, query.From, query.To)
			rd := lib.GetRedisClient()
			if cached := rd.Get(context.Background(), cacheKey).Val(); cached != "" {
				var report types.SettlementReport
				if err := json.Unmarshal([]byte(cached), &report); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": report})
					return
				}
			}
			report, err := common.PartnerReport(params.ID, from, to)
			if err != nil {
				log.Printf("Error building settlement report for partner %d: %s\n", params.ID, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			if b, err := json.Marshal(report); err == nil {
				rd.SetEx(context.Background(), cacheKey, string(b), 10*time.Minute)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": report})
		})
	return g
}

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PATCH("/partners/:id/commission-rate", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateCommissionRateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.ExternalPartner{}).
				Where(&models.ExternalPartner{ID: params.ID}).
				Update("commission_rate", *body.CommissionRate)
			if res.Error != nil {
				log.Printf("Error updating commission rate for partner %d: %s\n", params.ID, res.Error.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/partners/:id/slots", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.GrantSlotsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.ExternalPartner{}).
				Where(&models.ExternalPartner{ID: params.ID}).
				Update("paid_event_slots", gorm.Expr("paid_event_slots + ?", body.Slots))
			if res.Error != nil {
				log.Printf("Error granting slots to partner %d: %s\n", params.ID, res.Error.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		PATCH("/partners/:id/verify", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.ExternalPartner{}).
				Where(&models.ExternalPartner{ID: params.ID}).
				Update("is_verified", true)
			if res.Error != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/tickets/:id/commission-paid", func(ctx *gin.Context) {
			var params types.TicketURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := common.MarkPartnerPaid(uuid.MustParse(params.TicketID))
			if err != nil {
				log.Printf("Error marking commission paid for ticket %s: %s\n", params.TicketID, err.Error())
				if errors.Is(err, types.ErrTicketNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				if types.UserFacing(err) {
					ctx.JSON(http.StatusConflict, gin.H{"error": types.ReasonFor(err)})
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/users/:id/subscription", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.CancelSubscription(params.ID); err != nil {
				log.Printf("Error force-cancelling subscription for user %d: %s\n", params.ID, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		PATCH("/settings", func(ctx *gin.Context) {
			var body types.UpdateSettingsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var settings models.PlatformSettings
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.FirstOrCreate(&settings).Error; err != nil {
					return err
				}
				updates := map[string]any{}
				if body.DefaultCommissionRate != nil {
					updates["default_commission_rate"] = *body.DefaultCommissionRate
				}
				if body.PremiumCommissionRate != nil {
					updates["premium_commission_rate"] = *body.PremiumCommissionRate
				}
				if body.EventListingPrice != nil {
					updates["event_listing_price"] = *body.EventListingPrice
				}
				if body.AdListingPrice != nil {
					updates["ad_listing_price"] = *body.AdListingPrice
				}
				if len(updates) == 0 {
					return nil
				}
				return tx.
					Model(&models.PlatformSettings{}).
					Where(&models.PlatformSettings{ID: settings.ID}).
					Updates(updates).
					Error
			})
			if err != nil {
				log.Printf("Error updating platform settings: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
