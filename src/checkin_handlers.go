package main

import (
	"log"
	"net/http"
	"uems/src/common"
	"uems/src/lib"
	"uems/src/qrsign"
	"uems/src/types"

	"github.com/gin-gonic/gin"
)

func checkinHandlers(g *gin.RouterGroup, signer *qrsign.Signer, points lib.Points) *gin.RouterGroup {
	g.
		POST("/scan/ticket", func(ctx *gin.Context) {
			var body types.ValidateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.ValidateTicket(signer, body.QrToken, body.ScannerEventID)
			if err != nil {
				if types.UserFacing(err) {
					ctx.JSON(http.StatusOK, types.ScanResult{
						Success: false,
						Reason:  types.ReasonFor(err),
					})
					return
				}
				log.Printf("Error validating ticket: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, types.ScanResult{
				Success:    true,
				HolderName: ticket.Holder.Name,
				EventTitle: ticket.Event.Title,
			})
		}).
		POST("/scan/event", func(ctx *gin.Context) {
			var body types.ValidateStudentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			holderId := ctx.GetUint("id")
			result, err := common.ValidateStudent(ctx.Copy(), signer, points, body.QrToken, holderId)
			if err != nil {
				if types.UserFacing(err) {
					ctx.JSON(http.StatusOK, types.ScanResult{
						Success: false,
						Reason:  types.ReasonFor(err),
					})
					return
				}
				log.Printf("Error validating student scan: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, result)
		}).
		GET("/events/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			token, err := common.MintVenueQr(ctx.Copy(), signer, params.ID)
			if err != nil {
				log.Printf("Error minting venue code for event %d: %s\n", params.ID, err.Error())
				if types.UserFacing(err) {
					ctx.JSON(http.StatusConflict, gin.H{"error": types.ReasonFor(err)})
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"qr_token": token})
		})
	return g
}
