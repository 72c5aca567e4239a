// Package adminauth is the session and authorization core of the
// merchant admin panel: it establishes and persists an authenticated
// session, attaches the credential to every outbound call, reacts to
// credential expiry, and decides per-route access for the current role.
//
// Session lifecycle:
//   - Manager owns the authoritative in-memory Session record and the
//     login, restore, revalidate, and logout protocol, including the
//     captcha sub-flow a backend may demand on suspicious attempts.
//     Restoration is optimistic: a cached record authenticates the
//     process immediately and a background revalidation corrects it.
//   - CredentialGateway is the single place that knows the current
//     bearer credential. It injects the display language into every
//     request body and reacts to a transport-level 401 anywhere in the
//     process by tearing the session down exactly once.
//
// Authorization:
//   - ResourceTree is the immutable forest of navigable paths and role
//     restrictions, passed in as an explicit dependency so it can be
//     swapped in tests. Unregistered paths resolve open by policy.
//   - RouteGuard composes the session snapshot with the tree and
//     answers CanAccess for any navigation layer, remembering the
//     rejected path so a later login can return the user there.
//
// Event sinks:
//   - EventSink is a light-weight emitter used by Manager and the
//     gateway to describe login, restore, teardown, and captcha events.
//     Sinks run best-effort (errors are logged) so you can forward to a
//     toast layer or telemetry without blocking authentication.
package adminauth
