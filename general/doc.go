// Package general implements the sending side of the Byzantine Generals
// problem: a single General disseminating signed orders to a fixed set of
// lieutenants.
//
// # Core Components
//
// Engine: signs orders and delivers them to every lieutenant of a registry,
// and probes lieutenants for liveness.
//
// Honesty: the operator controlled switch between an honest General and a
// traitor.
//
// Report: the outcome of a broadcast or probe round, one Result per
// lieutenant in registry order.
//
// # Honest and Dishonest Generals
//
// An honest General signs one order and sends the very same line to every
// lieutenant. A dishonest General signs both an attack and a retreat order
// and alternates them by registry position: even positions receive attack,
// odd positions receive retreat. Every single message carries a valid
// signature, so the inconsistency can only be detected by lieutenants
// comparing what they received.
//
// # Failure Isolation
//
// Each lieutenant is reached independently and within its own timeout. An
// unreachable lieutenant is reported in the Report and never prevents the
// others from receiving their order. Only a signing failure aborts a
// broadcast, before anything is sent.
package general
