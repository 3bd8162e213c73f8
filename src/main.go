package main

import (
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"
	"uems/src/boot"
	"uems/src/config"
	"uems/src/lib"
	"uems/src/middlewares"
	"uems/src/qrsign"
	"uems/src/types"

	"errors"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var planTypeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	plan, ok := fl.Field().Interface().(types.SubscriptionType)
	if !ok {
		return false
	}
	switch plan {
	case types.PLAN_FREE, types.PLAN_PREMIUM:
		return true
	}
	return false
}

var settlementDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err != nil || atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	signer, err := qrsign.New(config.MustQRSecret(), config.QRTokenMaxAge())
	if err != nil {
		log.Fatalf("Failed to initialize signer: %s", err)
	}
	points := lib.NewPoints()

	boot.InitDb()
	boot.InitScheduler()
	go boot.InitBroker()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			if match {
				return true
			}
			match, _ = regexp.MatchString("app:mobile", origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("plantype", planTypeValidatorFunc)
		v.RegisterValidation("reportdate", settlementDateValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	stripeWebhookRoute(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = ticketHandlers(authorized, signer)
		authorized = checkinHandlers(authorized, signer, points)
		authorized = registrationHandlers(authorized)
		authorized = partnerHandlers(authorized)
		authorized = subscriptionHandlers(authorized, points)
	}

	admin := router.Group(path.Join(apiPrefix, "admin"))
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminOnly)
	{
		admin = adminHandlers(admin)
	}

	if err := router.Run(":9090"); err != nil {
		boot.StopScheduler()
		log.Fatalf("Failed to start server: %s", err)
	}
}
