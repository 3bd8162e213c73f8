package main

import (
	"log"
	"net/http"
	"uems/src/common"
	"uems/src/db"
	"uems/src/models"
	"uems/src/types"

	"github.com/gin-gonic/gin"
)

func registrationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/registrations", func(ctx *gin.Context) {
			holderId := ctx.GetUint("id")
			var registrations []models.Registration
			db := db.GetDb()
			if err := db.
				Where(&models.Registration{HolderID: holderId}).
				Preload("Event").
				Order("created_at desc").
				Find(&registrations).Error; err != nil {
				log.Printf("Error retrieving Registrations: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": registrations})
		}).
		POST("/registrations", func(ctx *gin.Context) {
			var body types.RegisterRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			holderId := ctx.GetUint("id")
			registration, err := common.RegisterForEvent(body.EventID, holderId)
			if err != nil {
				log.Printf("Error registering for event %d: %s\n", body.EventID, err.Error())
				if types.UserFacing(err) {
					ctx.JSON(http.StatusConflict, gin.H{"error": types.ReasonFor(err)})
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": registration})
		}).
		DELETE("/registrations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			holderId := ctx.GetUint("id")
			db := db.GetDb()
			res := db.
				Model(&models.Registration{}).
				Where("id = ? AND holder_id = ? AND checked_in = ?", params.ID, holderId, false).
				Update("status", types.REGISTRATION_CANCELLED)
			if res.Error != nil {
				log.Printf("Error cancelling Registration [%d]: %s\n", params.ID, res.Error.Error())
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
