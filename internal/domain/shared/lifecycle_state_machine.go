package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus represents the state of a simulation session
type LifecycleStatus string

const (
	// LifecycleStatusPending indicates the session is loaded but not started
	LifecycleStatusPending LifecycleStatus = "PENDING"

	// LifecycleStatusRunning indicates frames are being simulated
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusCompleted indicates the session reached its tick limit
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"

	// LifecycleStatusFailed indicates the session aborted on an error
	LifecycleStatusFailed LifecycleStatus = "FAILED"

	// LifecycleStatusStopped indicates the session was cancelled
	LifecycleStatusStopped LifecycleStatus = "STOPPED"
)

// LifecycleStateMachine tracks the PENDING -> RUNNING -> COMPLETED/FAILED/STOPPED
// lifecycle of a simulation session.
//
// Invariants:
// - Terminal states (COMPLETED, FAILED, STOPPED) are never left
// - The tick at which the session stopped is recorded with the transition
type LifecycleStateMachine struct {
	status        LifecycleStatus
	createdAt     time.Time
	startedAt     *time.Time
	stoppedAt     *time.Time
	stoppedAtTick int64
	lastError     error
	clock         Clock
}

// NewLifecycleStateMachine creates a new lifecycle state machine in PENDING state
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}
	return &LifecycleStateMachine{
		status:    LifecycleStatusPending,
		createdAt: clock.Now(),
		clock:     clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus {
	return sm.status
}

func (sm *LifecycleStateMachine) CreatedAt() time.Time {
	return sm.createdAt
}

func (sm *LifecycleStateMachine) StartedAt() *time.Time {
	return sm.startedAt
}

func (sm *LifecycleStateMachine) StoppedAt() *time.Time {
	return sm.stoppedAt
}

// StoppedAtTick returns the simulation tick recorded with the terminal transition
func (sm *LifecycleStateMachine) StoppedAtTick() int64 {
	return sm.stoppedAtTick
}

func (sm *LifecycleStateMachine) LastError() error {
	return sm.lastError
}

// Start transitions from PENDING to RUNNING
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	return nil
}

// Complete transitions from RUNNING to COMPLETED
func (sm *LifecycleStateMachine) Complete(tick int64) error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	sm.finish(LifecycleStatusCompleted, tick)
	return nil
}

// Fail transitions from any non-terminal state to FAILED
func (sm *LifecycleStateMachine) Fail(tick int64, err error) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	sm.lastError = err
	sm.finish(LifecycleStatusFailed, tick)
	return nil
}

// Stop transitions from any non-terminal state to STOPPED
func (sm *LifecycleStateMachine) Stop(tick int64) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot stop from %s state", sm.status)
	}
	sm.finish(LifecycleStatusStopped, tick)
	return nil
}

func (sm *LifecycleStateMachine) finish(status LifecycleStatus, tick int64) {
	now := sm.clock.Now()
	sm.status = status
	sm.stoppedAt = &now
	sm.stoppedAtTick = tick
}

func (sm *LifecycleStateMachine) IsRunning() bool {
	return sm.status == LifecycleStatusRunning
}

// IsFinished returns true if the session has completed, failed, or stopped
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted ||
		sm.status == LifecycleStatusFailed ||
		sm.status == LifecycleStatusStopped
}

// RuntimeDuration returns the wall-clock time spent running, 0 if never started
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}
	end := sm.clock.Now()
	if sm.stoppedAt != nil {
		end = *sm.stoppedAt
	}
	return end.Sub(*sm.startedAt)
}
