package controller

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	appconfig "academy_backend/internal/config"
	"academy_backend/internal/model"
	"academy_backend/internal/repository"
	"academy_backend/internal/service"
	"academy_backend/internal/service/payment"
	"academy_backend/internal/util"
	"academy_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubGateway struct {
	verifyErr error
	event     *payment.Event
	parseErr  error
}

func (s *stubGateway) Name() string { return "stub" }
func (s *stubGateway) CreateCheckout(_ context.Context, email, userID string) (string, error) {
	return "", nil
}
func (s *stubGateway) VerifyOrder(_ context.Context, id string) (*payment.Receipt, error) {
	return nil, nil
}
func (s *stubGateway) VerifyWebhook(body []byte, header http.Header) error { return s.verifyErr }
func (s *stubGateway) ParseEvent(body []byte) (*payment.Event, error) {
	return s.event, s.parseErr
}

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newWebhookTestController(t *testing.T, gateway payment.Gateway) (*WebhookController, *gorm.DB) {
	t.Helper()
	db := newControllerTestDB(t)

	email, err := service.NewEmailService(&appconfig.EmailConfig{}, "")
	require.NoError(t, err)

	return NewWebhookController(
		gateway,
		repository.NewUserRepository(db),
		repository.NewPurchaseRepository(db),
		email,
	), db
}

func performWebhook(c *WebhookController, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewBufferString(body))
	c.HandlePayment(ctx)
	return w
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	c, db := newWebhookTestController(t, &stubGateway{verifyErr: util.ErrInvalidSignature})

	w := performWebhook(c, `{"anything": true}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	db.Model(&model.Purchase{}).Count(&count)
	assert.Zero(t, count)
}

func TestWebhookPaidEventGrantsPremium(t *testing.T) {
	gateway := &stubGateway{event: &payment.Event{
		Name:    "order_created",
		OrderID: "ord-1",
		Email:   "buyer@example.com",
		UserID:  "0",
		Amount:  4900,
		Paid:    true,
	}}
	c, db := newWebhookTestController(t, gateway)

	userRepo := repository.NewUserRepository(db)
	user := &model.User{DisplayName: "Buyer", Email: "buyer@example.com", Password: "x"}
	require.NoError(t, userRepo.Create(user))
	gateway.event.UserID = strconv.FormatUint(uint64(user.ID), 10)

	w := performWebhook(c, `{"signed": "payload"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())

	updated, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPremium)
	assert.Equal(t, "ord-1", updated.OrderID)

	purchase, err := repository.NewPurchaseRepository(db).FindByOrderID("ord-1")
	require.NoError(t, err)
	assert.Equal(t, 4900, purchase.Amount)
	assert.Equal(t, user.ID, purchase.UserID)
}

func TestWebhookGuestPurchaseRecordedWithoutUser(t *testing.T) {
	gateway := &stubGateway{event: &payment.Event{
		Name:    "order_created",
		OrderID: "ord-guest",
		Email:   "guest@example.com",
		Amount:  4900,
		Paid:    true,
	}}
	c, db := newWebhookTestController(t, gateway)

	w := performWebhook(c, `{"signed": "payload"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	purchase, err := repository.NewPurchaseRepository(db).FindByOrderID("ord-guest")
	require.NoError(t, err)
	assert.Zero(t, purchase.UserID)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	gateway := &stubGateway{event: &payment.Event{
		OrderID: "ord-dup",
		Email:   "buyer@example.com",
		Amount:  4900,
		Paid:    true,
	}}
	c, db := newWebhookTestController(t, gateway)

	performWebhook(c, `{"signed": "payload"}`)
	performWebhook(c, `{"signed": "payload"}`)

	var count int64
	db.Model(&model.Purchase{}).Where("order_id = ?", "ord-dup").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestWebhookUnpaidEventAcknowledgedWithoutEffect(t *testing.T) {
	gateway := &stubGateway{event: &payment.Event{
		Name:    "order_refunded",
		OrderID: "ord-2",
		Paid:    false,
	}}
	c, db := newWebhookTestController(t, gateway)

	w := performWebhook(c, `{"signed": "payload"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&model.Purchase{}).Count(&count)
	assert.Zero(t, count)
}
