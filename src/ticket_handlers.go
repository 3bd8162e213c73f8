package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"
	"uems/src/common"
	"uems/src/db"
	"uems/src/lib"
	"uems/src/models"
	"uems/src/qrsign"
	"uems/src/types"

	awslib "uems/src/lib/aws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func ticketHandlers(g *gin.RouterGroup, signer *qrsign.Signer) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			holderId := ctx.GetUint("id")
			var tickets []models.Ticket
			db := db.GetDb()
			if err := db.
				Where(&models.Ticket{HolderID: holderId}).
				Preload("Event").
				Order("created_at desc").
				Find(&tickets).Error; err != nil {
				log.Printf("Error retrieving Tickets: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			var params types.TicketURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			holderId := ctx.GetUint("id")
			ticketId := uuid.MustParse(params.TicketID)
			var ticket models.Ticket
			db := db.GetDb()
			if err := db.
				Where(&models.Ticket{ID: ticketId, HolderID: holderId}).
				Preload("Event").
				First(&ticket).
				Error; err != nil {
				log.Printf("Error retrieving Ticket: %s\n", err.Error())
				if errors.Is(gorm.ErrRecordNotFound, err) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets", func(ctx *gin.Context) {
			var body types.IssueTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.HolderID == 0 {
				body.HolderID = ctx.GetUint("id")
			}
			ticket, checkoutUrl, err := common.IssueTicket(signer, &body)
			if err != nil {
				log.Printf("Error issuing ticket: %s\n", err.Error())
				if types.UserFacing(err) {
					ctx.JSON(http.StatusConflict, gin.H{"error": types.ReasonFor(err)})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not issue ticket"})
				return
			}
			resp := gin.H{"data": ticket}
			if checkoutUrl != nil {
				resp["checkout_url"] = *checkoutUrl
			}
			ctx.JSON(http.StatusCreated, resp)
		}).
		POST("/tickets/:id/download/code", func(ctx *gin.Context) {
			var query struct {
				ShareLink bool `form:"share_link"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var params types.TicketURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			holderId := ctx.GetUint("id")
			ticketId := uuid.MustParse(params.TicketID)
			filename := lib.EticketKey(params.TicketID)
			log.Printf("Download eticket for %s\n", filename)

			rd := lib.GetRedisClient()
			content, err := rd.Get(context.Background(), filename).Result()
			if err != nil {
				if errors.Is(redis.Nil, err) {
					log.Printf("No value for key: %s\n", filename)
				} else {
					log.Printf("Error reading from cache: %s\n", err.Error())
					ctx.Status(http.StatusBadRequest)
					return
				}
			}
			wd, err := os.Getwd()
			if err != nil {
				log.Printf("Could not read working directory: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
			if content != "" && query.ShareLink {
				ctx.JSON(http.StatusOK, gin.H{"url": content})
				return
			}

			var signedURL string
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				var ticket models.Ticket
				if err := tx.
					Where(&models.Ticket{ID: ticketId, HolderID: holderId}).
					Preload("Event").
					First(&ticket).
					Error; err != nil {
					return err
				}
				if ticket.Status.Terminal() {
					return errors.New("ticket is no longer valid")
				}
				qrc, err := qrcode.New(ticket.QrPayload)
				if err != nil {
					return err
				}
				if err = qrc.Save(filepath); err != nil {
					log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
					return err
				}
				var url *string
				exists, err := awslib.S3QrExists(params.TicketID)
				if err != nil {
					log.Printf("Could not check S3 bucket for asset: %s\n", err.Error())
					exists = false
				}
				if exists {
					url, err = awslib.S3PresignQr(params.TicketID)
				} else {
					url, err = awslib.S3UploadQr(params.TicketID, filepath)
				}
				if err != nil {
					log.Printf("Error preparing S3 asset link: %s\n", err.Error())
					return err
				}
				signedURL = *url
				rd.SetEx(context.Background(), filename, signedURL, 2*time.Hour)
				return nil
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if query.ShareLink {
				ctx.JSON(http.StatusOK, gin.H{"url": signedURL})
				return
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}
