// Package auth implements the stateless authentication core of the customer
// service: JWT issuance and validation, an ordered chain of credential
// verifiers (password and one-time-passcode), the pass-through bearer token
// filter, and the route access policy with its entry point.
//
// Request flow:
//   - A login request hits the Auther, which walks its credential verifiers in
//     declared order (password first, OTP second) against the user directory.
//     The first success yields an identity and a signed bearer token.
//   - Subsequent requests carry the token in the Authorization header. The
//     TokenFilter validates it and installs the resulting claims into the
//     request context; it never rejects on its own.
//   - The AccessPolicy decides which routes require an authenticated
//     principal. Denials are translated to a uniform wire error by the
//     EntryPoint, the only component that writes authentication failures to
//     clients.
//
// Validity is recomputed from the token on every request; no session state is
// retained server side.
package auth
