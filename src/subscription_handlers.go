package main

import (
	"log"
	"net/http"
	"uems/src/common"
	"uems/src/db"
	"uems/src/lib"
	"uems/src/models"
	"uems/src/types"

	"github.com/gin-gonic/gin"
)

func subscriptionHandlers(g *gin.RouterGroup, points lib.Points) *gin.RouterGroup {
	g.
		GET("/subscriptions/active", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			sub, err := common.GetActiveSubscription(userId)
			if err != nil {
				log.Printf("Error retrieving subscription for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sub})
		}).
		POST("/subscriptions", func(ctx *gin.Context) {
			var body types.SubscribeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			sub, err := common.Subscribe(userId, body.Type, body.Months)
			if err != nil {
				log.Printf("Error subscribing user %d: %s\n", userId, err.Error())
				if types.UserFacing(err) {
					ctx.JSON(http.StatusConflict, gin.H{"error": types.ReasonFor(err)})
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": sub})
		}).
		DELETE("/subscriptions", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			if err := common.CancelSubscription(userId); err != nil {
				log.Printf("Error cancelling subscription for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		GET("/quota", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			quota, err := common.CanCreateResource(userId)
			if err != nil {
				log.Printf("Error checking quota for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": quota})
		}).
		GET("/points", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			total, level, err := points.Total(ctx.Copy(), userId)
			if err != nil {
				log.Printf("Error reading points for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"total": total, "level": level})
		}).
		GET("/listings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var listings []models.ServiceListing
			db := db.GetDb()
			if err := db.
				Where(&models.ServiceListing{OwnerID: userId, IsActive: true}).
				Order("created_at desc").
				Find(&listings).Error; err != nil {
				log.Printf("Error retrieving Listings: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listings})
		}).
		POST("/listings", func(ctx *gin.Context) {
			var body types.CreateListingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			quota, err := common.CanCreateResource(userId)
			if err != nil {
				log.Printf("Error checking quota for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			if !quota.Allowed {
				ctx.JSON(http.StatusForbidden, gin.H{
					"error": "listing quota reached",
					"quota": quota,
				})
				return
			}
			listing := models.ServiceListing{
				OwnerID:     userId,
				Title:       body.Title,
				Description: body.Description,
				Price:       body.Price,
			}
			db := db.GetDb()
			if err := db.Create(&listing).Error; err != nil {
				log.Printf("Error creating listing: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": listing})
		}).
		DELETE("/listings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			res := db.
				Model(&models.ServiceListing{}).
				Where("id = ? AND owner_id = ?", params.ID, userId).
				Update("is_active", false)
			if res.Error != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
