package services

import "sync/atomic"

// RegistrationMode is the process-wide switch between open and invite-only
// sign-up. It starts from configuration and is flipped by admins at runtime.
type RegistrationMode struct {
	open atomic.Bool
}

func NewRegistrationMode(open bool) *RegistrationMode {
	mode := &RegistrationMode{}
	mode.open.Store(open)
	return mode
}

func (mode *RegistrationMode) Open() bool {
	return mode.open.Load()
}

func (mode *RegistrationMode) Set(open bool) {
	mode.open.Store(open)
}
