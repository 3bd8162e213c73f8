package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
	"uems/src/lib"
	"uems/src/middlewares"
	"uems/src/qrsign"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

type TestSuite struct {
	suite.Suite
	Signer *qrsign.Signer
	Points lib.Points
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("plantype", planTypeValidatorFunc)
		v.RegisterValidation("reportdate", settlementDateValidatorFunc)
	}

	signer, err := qrsign.New([]byte("test-secret"), 24*time.Hour)
	if err != nil {
		s.T().Fatalf("Error creating signer: %s", err.Error())
	}
	s.Signer = signer
	s.Points = lib.NewPoints()
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestUnauthorizedWithoutToken() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	checkinHandlers(apiv1, s.Signer, s.Points)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/scan/ticket", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestUnauthorizedWithBareBearerHeader() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	checkinHandlers(apiv1, s.Signer, s.Points)

	for _, header := range []string{"Bearer", "Bearer "} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/scan/ticket", strings.NewReader(`{}`))
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	}
}

func (s *TestSuite) TestScanRequestValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	checkinHandlers(apiv1, s.Signer, s.Points)

	s.Run("Should reject an empty ticket scan body", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/scan/ticket", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		errMsg := gjson.Get(w.Body.String(), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})

	s.Run("Should reject an event scan without a token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/scan/event", strings.NewReader(`{"qr_token":""}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestIssueRequestValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	ticketHandlers(apiv1, s.Signer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tickets", strings.NewReader(`{"holder_id":1}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
	errMsg := gjson.Get(w.Body.String(), "error").String()
	assert.Contains(s.T(), errMsg, "EventID")
}

func (s *TestSuite) TestWebhookRejectsUnsignedPayload() {
	router := setupRouter()
	stripeWebhookRoute(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe", strings.NewReader(`{"type":"checkout.session.completed"}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
