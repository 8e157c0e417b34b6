// Package auth provides credential verification and token issuance
// primitives: claim assembly, JWT signing, registration and login
// orchestration, plus role assignment.
//
// Claim assembly:
//   - BuildClaims produces an insertion ordered, deduplicated ClaimSet with
//     one subject, one fresh token id, one email and one uid claim, a role
//     claim per assigned role, and any store provided claims unioned in.
//     ClaimsDecorator is the extension point for enriching sets before
//     signing; the canonical claims stay fixed.
//
// Stores:
//   - The core depends on the narrow UserStore and RoleStore capability
//     interfaces. Bun backed implementations (Users, Roles, plus a
//     RepositoryManager) ship with the package; password hashing lives
//     inside the store, never in the orchestration layer.
//
// Results:
//   - Registration and login return an AuthResult. Expected failures (bad
//     input, wrong credentials, uniqueness conflicts) surface as an
//     unauthenticated result with a client safe message; only store outages
//     and signing misconfiguration come back as errors.
package auth
