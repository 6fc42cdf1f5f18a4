//go:build !rtidebug

package rtimodel

// CheckConsistency is a no-op in release builds (without the rtidebug
// build tag). See consistency_debug.go for the real invariant walk.
func (a *Automaton) CheckConsistency() {}
