package lettest

import (
	"sync"

	"lazyspec.dev/pkg/lazyspec/let"
)

// Registration is one recorded before-each registration.
type Registration struct {
	Group *let.Group
	Hook  let.BeforeHook
}

// RecordingRegistrar collects before-each registrations for runner
// integrations that schedule eager forcing themselves instead of
// replaying the world's recorder.
type RecordingRegistrar struct {
	mu   sync.Mutex
	regs []Registration
}

// RegisterBeforeEach implements let.HookRegistrar.
func (r *RecordingRegistrar) RegisterBeforeEach(g *let.Group, hook let.BeforeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs = append(r.regs, Registration{Group: g, Hook: hook})
}

// Registrations returns the recorded registrations in arrival order.
func (r *RecordingRegistrar) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := make([]Registration, len(r.regs))
	copy(regs, r.regs)

	return regs
}
