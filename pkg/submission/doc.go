// Package submission implements the predict request lifecycle:
//
//	idle -> pending -> succeeded | failed -> (pending again on resubmit)
//
// Begin, Succeed, Fail and Reset are pure transitions on State so the machine
// can be tested without a client or a renderer. Workflow wraps them around a
// form.State and a predict.Client, snapshots the payload when a cycle starts
// and turns every failure into PhaseFailed with a single display message.
package submission
