// Package services – CallService
//
// This file implements the simulated voice call. There is no signaling
// protocol or media transport: transitions are driven by fixed wall-clock
// delays (calling → ringing → connected), explicitly documented as a
// simulation. Exactly one call slot exists per process; initiating while a
// call is active is rejected rather than silently clobbering the slot.
//
// Every pending timer is owned by the service and cancelled when the slot
// is cleared or the service is closed, so nothing fires after teardown.
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homefix/go-homefix-backend/internal/domain"
)

// CallTimings configures the simulation delays. Tests shrink these to
// milliseconds.
type CallTimings struct {
	// RingAfter is the delay from initiation to ringing.
	RingAfter time.Duration
	// ConnectAfter is the delay from initiation to auto-connect, applied
	// only if the call is still ringing when it fires.
	ConnectAfter time.Duration
	// EndClear is how long an ended call stays visible before the slot
	// empties.
	EndClear time.Duration
	// RejectClear is the (shorter) visibility window after a rejection.
	RejectClear time.Duration
}

// DefaultCallTimings mirrors the original simulation: ring at 1s, connect
// at 3s, clear 2s after ending and 1s after rejecting.
func DefaultCallTimings() CallTimings {
	return CallTimings{
		RingAfter:    1 * time.Second,
		ConnectAfter: 3 * time.Second,
		EndClear:     2 * time.Second,
		RejectClear:  1 * time.Second,
	}
}

// CallService owns the single ephemeral call slot. Safe for concurrent use.
type CallService struct {
	mu      sync.Mutex
	timings CallTimings
	current *domain.Call
	timers  []*time.Timer
	closed  bool
}

// NewCallService constructs a CallService with the given timings.
func NewCallService(t CallTimings) *CallService {
	return &CallService{timings: t}
}

// Initiate creates the call in the calling state and schedules the
// ringing and auto-connect transitions. A second call while the slot holds
// a live call is rejected with ErrCallInProgress; an ended-but-not-yet-
// cleared call is replaced.
func (s *CallService) Initiate(jobID, callerID, callerName, receiverID, receiverName string) (*domain.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrNoActiveCall
	}
	if s.current != nil && s.current.Status != domain.CallStatusEnded {
		return nil, ErrCallInProgress
	}
	s.cancelTimersLocked()

	call := &domain.Call{
		ID:           uuid.NewString(),
		JobID:        jobID,
		CallerID:     callerID,
		CallerName:   callerName,
		ReceiverID:   receiverID,
		ReceiverName: receiverName,
		Status:       domain.CallStatusCalling,
		StartedAt:    time.Now().UTC(),
	}
	s.current = call
	id := call.ID

	s.timers = append(s.timers,
		time.AfterFunc(s.timings.RingAfter, func() {
			s.transition(id, domain.CallStatusCalling, domain.CallStatusRinging)
		}),
		time.AfterFunc(s.timings.ConnectAfter, func() {
			s.transition(id, domain.CallStatusRinging, domain.CallStatusConnected)
		}),
	)

	return cloneCall(call), nil
}

// transition moves the current call from one status to another, provided
// the slot still holds the same call in the expected state.
func (s *CallService) transition(id, from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != id || s.current.Status != from {
		return
	}
	s.current.Status = to
	if to == domain.CallStatusConnected {
		now := time.Now().UTC()
		s.current.ConnectedAt = &now
	}
}

// Answer connects a ringing call immediately. Answering is only meaningful
// while ringing.
func (s *CallService) Answer() (*domain.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoActiveCall
	}
	if s.current.Status != domain.CallStatusRinging {
		return nil, ErrCallNotRinging
	}
	now := time.Now().UTC()
	s.current.Status = domain.CallStatusConnected
	s.current.ConnectedAt = &now
	return cloneCall(s.current), nil
}

// End terminates the call from any state. Duration counts connected time
// only and is zero when the call never connected. The slot clears after
// the end-visibility window.
func (s *CallService) End() (*domain.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoActiveCall
	}
	s.cancelTimersLocked()

	now := time.Now().UTC()
	s.current.Status = domain.CallStatusEnded
	s.current.EndedAt = &now
	if s.current.ConnectedAt != nil {
		s.current.Duration = int(now.Sub(*s.current.ConnectedAt) / time.Second)
	}
	s.scheduleClearLocked(s.current.ID, s.timings.EndClear)
	return cloneCall(s.current), nil
}

// Reject declines the call without computing a duration and clears the
// slot after the shorter rejection window.
func (s *CallService) Reject() (*domain.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoActiveCall
	}
	s.cancelTimersLocked()

	now := time.Now().UTC()
	s.current.Status = domain.CallStatusEnded
	s.current.EndedAt = &now
	s.scheduleClearLocked(s.current.ID, s.timings.RejectClear)
	return cloneCall(s.current), nil
}

// Current returns a copy of the active call, or false when the slot is
// empty.
func (s *CallService) Current() (*domain.Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	return cloneCall(s.current), true
}

// Close cancels every pending timer and empties the slot. The service
// rejects new calls afterwards.
func (s *CallService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelTimersLocked()
	s.current = nil
}

// scheduleClearLocked empties the slot after d, unless it was replaced.
func (s *CallService) scheduleClearLocked(id string, d time.Duration) {
	s.timers = append(s.timers, time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.current != nil && s.current.ID == id {
			s.current = nil
		}
	}))
}

// cancelTimersLocked stops every pending timer. Callers hold s.mu.
func (s *CallService) cancelTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// cloneCall returns a defensive copy so callers never share the slot's
// mutable record.
func cloneCall(c *domain.Call) *domain.Call {
	out := *c
	if c.ConnectedAt != nil {
		t := *c.ConnectedAt
		out.ConnectedAt = &t
	}
	if c.EndedAt != nil {
		t := *c.EndedAt
		out.EndedAt = &t
	}
	return &out
}
