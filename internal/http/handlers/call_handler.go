// Call HTTP handlers.
//
// This file exposes REST endpoints for the simulated voice call:
//   - POST   /calls          (initiate; one call at a time)
//   - GET    /calls/current  (the active call, if any)
//   - POST   /calls/answer   (connect a ringing call)
//   - POST   /calls/end      (hang up)
//   - POST   /calls/reject   (decline)
//
// The call is process-local and ephemeral: nothing here touches storage.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homefix/go-homefix-backend/internal/domain"
	"github.com/homefix/go-homefix-backend/internal/services"
)

// CallService defines the simulated call state machine consumed by HTTP
// handlers. Implementations must be safe for concurrent use.
type CallService interface {
	// Initiate starts a call; rejected while another call is live.
	Initiate(jobID, callerID, callerName, receiverID, receiverName string) (*domain.Call, error)
	// Answer connects a ringing call.
	Answer() (*domain.Call, error)
	// End hangs up, computing the connected duration.
	End() (*domain.Call, error)
	// Reject declines without a duration.
	Reject() (*domain.Call, error)
	// Current returns the active call, if any.
	Current() (*domain.Call, bool)
}

// InitiateCallRequest is the JSON payload for starting a call.
type InitiateCallRequest struct {
	JobID        string `json:"job_id" binding:"required"`
	CallerName   string `json:"caller_name" binding:"required"`
	ReceiverID   string `json:"receiver_id" binding:"required"`
	ReceiverName string `json:"receiver_name" binding:"required"`
}

// InitiateCall starts the simulated call for the acting user.
func (h *Handlers) InitiateCall(c *gin.Context) {
	var req InitiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := uuid.Parse(req.JobID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	call, err := h.callSvc.Initiate(req.JobID, userID(c), req.CallerName, req.ReceiverID, req.ReceiverName)
	if err != nil {
		h.failCall(c, err)
		return
	}
	ok(c, http.StatusCreated, call)
}

// CurrentCall returns the active call, or 404 when the slot is empty.
func (h *Handlers) CurrentCall(c *gin.Context) {
	call, active := h.callSvc.Current()
	if !active {
		fail(c, http.StatusNotFound, ErrCodeNoActiveCall, "no active call")
		return
	}
	ok(c, http.StatusOK, call)
}

// AnswerCall connects the ringing call.
func (h *Handlers) AnswerCall(c *gin.Context) {
	call, err := h.callSvc.Answer()
	if err != nil {
		h.failCall(c, err)
		return
	}
	ok(c, http.StatusOK, call)
}

// EndCall hangs up and returns the final record including duration.
func (h *Handlers) EndCall(c *gin.Context) {
	call, err := h.callSvc.End()
	if err != nil {
		h.failCall(c, err)
		return
	}
	ok(c, http.StatusOK, call)
}

// RejectCall declines the call.
func (h *Handlers) RejectCall(c *gin.Context) {
	call, err := h.callSvc.Reject()
	if err != nil {
		h.failCall(c, err)
		return
	}
	ok(c, http.StatusOK, call)
}

// failCall maps call service errors onto the HTTP error taxonomy.
func (h *Handlers) failCall(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCallInProgress):
		fail(c, http.StatusConflict, ErrCodeCallInProgress, "another call is already in progress")
	case errors.Is(err, services.ErrNoActiveCall):
		fail(c, http.StatusNotFound, ErrCodeNoActiveCall, "no active call")
	case errors.Is(err, services.ErrCallNotRinging):
		fail(c, http.StatusConflict, ErrCodeCallNotRinging, "call is not ringing")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
