// Package overlay implements the ViewGate session controller: the
// pure decision core that maps triggering events and token slots to
// the next slots, view tree, and control label.
//
// The controller owns no transport, storage, or rendering. Its three
// collaborators are opaque:
//
//   - Oracle issues, re-checks, and revokes tokens. Any oracle failure
//     is absorbed into a fail-closed transition.
//   - view.Provider builds the logged-in and logged-out view trees.
//   - The caller persists the State slots between evaluations.
//
// Protect wraps application callbacks so every interaction carries a
// trailing status probe, and Prober runs the same probe on a timer for
// idle sessions.
package overlay
