package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
	"github.com/eventcrew/eventcrew-api/internal/payments"
	"github.com/eventcrew/eventcrew-api/internal/services/cardcom"
	"github.com/eventcrew/eventcrew-api/internal/services/jobrequest"
)

type PaymentHandler struct {
	Engine      *jobrequest.Service
	Gateway     *cardcom.Service
	Sessions    *payments.SessionStore
	PlatformFee int64
	BaseURL     string
	FrontendURL string
	Logger      *zap.Logger
}

type CreatePaymentReq struct {
	Amount int64 `json:"amount"`
}

// CreatePayment opens a gateway payment page for the platform fee of an
// accepted request. Request status is untouched until the gateway confirms.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobRequestID, err := uuid.Parse(c.Params("job_request_id"))
	if err != nil {
		return apperr.Write(c, apperr.Validation("invalid job request id"))
	}

	var req CreatePaymentReq
	_ = c.BodyParser(&req) // body is optional, amount defaults to the fee
	amount := req.Amount
	if amount == 0 {
		amount = h.PlatformFee
	}
	if amount <= 0 {
		return apperr.Write(c, apperr.Validation("amount must be positive"))
	}

	jr, err := h.Engine.Get(c.Context(), jobRequestID, uid)
	if err != nil {
		return apperr.Write(c, err)
	}
	if jr.OrganizerID != uid {
		return apperr.Write(c, apperr.Authorization("only the organizer pays the platform fee"))
	}
	if jr.Status != models.JobRequestAccepted {
		return apperr.Write(c, apperr.InvalidTransition("job request is not awaiting payment"))
	}

	var customerName, customerEmail string
	if jr.Organizer != nil {
		customerName = jr.Organizer.FullName
		customerEmail = jr.Organizer.Email
	}

	resp, err := h.Gateway.CreateLowProfile(cardcom.CreateInput{
		ReturnValue:        jr.ID.String(),
		Amount:             amount,
		CustomerName:       customerName,
		CustomerEmail:      customerEmail,
		ProductDescription: "Contact unlock fee, " + string(jr.RequestedRole),
		SuccessRedirectUrl: h.FrontendURL + "/payment/success",
		FailedRedirectUrl:  h.FrontendURL + "/payment/error",
		WebHookUrl:         h.BaseURL + "/api/payments/callback",
	})
	if err != nil {
		h.Logger.Error("cardcom create failed",
			zap.String("job_request", jr.ID.String()), zap.Error(err))
		return apperr.Write(c, apperr.PaymentInitiation(err))
	}

	sess := &payments.Session{
		JobRequestID: jr.ID,
		LowProfileID: resp.LowProfileId,
		Amount:       amount,
		Status:       payments.SessionPending,
		CreatedAt:    time.Now(),
	}
	if err := h.Sessions.Put(c.Context(), sess); err != nil {
		return apperr.Write(c, apperr.Internal(err))
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"payment_url": resp.Url,
		"reference":   resp.LowProfileId,
	})
}

type callbackPayload struct {
	LowProfileId string `json:"LowProfileId"`
}

// HandleCallback processes the gateway webhook. The body is untrusted: only
// the LowProfileId is taken from it and the transaction outcome is fetched
// from the gateway with the merchant credentials before any state changes.
func (h *PaymentHandler) HandleCallback(c *fiber.Ctx) error {
	var payload callbackPayload
	if err := c.BodyParser(&payload); err != nil || payload.LowProfileId == "" {
		return apperr.Write(c, apperr.PaymentCallback("missing LowProfileId"))
	}

	sess, err := h.Sessions.GetByLowProfileID(c.Context(), payload.LowProfileId)
	if err != nil {
		h.Logger.Warn("callback for unknown payment session",
			zap.String("low_profile_id", payload.LowProfileId))
		return apperr.Write(c, apperr.PaymentCallback("unknown payment session"))
	}

	result, err := h.Gateway.GetResult(payload.LowProfileId)
	if err != nil {
		h.Logger.Error("cardcom result fetch failed", zap.Error(err))
		return apperr.Write(c, apperr.PaymentCallback("could not verify payment with gateway"))
	}

	if result.ResponseCode != 0 {
		_ = h.Sessions.Resolve(c.Context(), sess, payments.SessionFailed)
		h.Logger.Warn("payment not approved",
			zap.String("job_request", sess.JobRequestID.String()),
			zap.Int("response_code", result.ResponseCode))
		return apperr.Write(c, apperr.PaymentCallback("payment not approved"))
	}
	if result.ReturnValue != sess.JobRequestID.String() {
		return apperr.Write(c, apperr.PaymentCallback("payment does not match this job request"))
	}
	if result.Amount != 0 && result.Amount != sess.Amount {
		return apperr.Write(c, apperr.PaymentCallback("paid amount does not match"))
	}

	if _, err := h.Engine.RecordPaymentSuccess(c.Context(), sess.JobRequestID, payload.LowProfileId); err != nil {
		return apperr.Write(c, err)
	}
	if err := h.Sessions.Resolve(c.Context(), sess, payments.SessionSuccess); err != nil {
		h.Logger.Error("resolve payment session", zap.Error(err))
	}

	h.Logger.Info("payment confirmed",
		zap.String("job_request", sess.JobRequestID.String()),
		zap.String("low_profile_id", payload.LowProfileId))
	return c.JSON(fiber.Map{"success": true})
}
