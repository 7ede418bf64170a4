// Package order builds the signed orders a General sends to its lieutenants.
//
// # Core Components
//
// Label: the semantic content of an order, either attack or retreat.
//
// SignedOrder: a label, the identity of the sender and a digital signature
// over the label bytes.
//
// Signer: holds the General's private key and produces SignedOrders.
//
// # Signatures
//
// Orders are signed with Schnorr signatures over Ed25519. Every signature
// draws a fresh random nonce, so signing the same label twice with the same
// key yields two different signatures which both verify. A lieutenant can
// therefore not tell a traitor from an honest General just by comparing
// signature bytes: a signature authenticates who sent an order, never
// whether the order is consistent with what the others received.
//
// # Wire Format
//
// A SignedOrder travels as one line of text:
//
//	<label>:<senderId>:<base64(signature)>
//
// Only the label is covered by the signature.
package order
