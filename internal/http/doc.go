// Package http provides the webhook transport for the mediator.
//
// The router exposes the following endpoints:
//   - POST /webhook: LINE Messaging API webhook. The request signature is
//     validated against the channel secret; text messages are mediated and
//     answered through the reply token. The endpoint returns 200 even when
//     mediation fails, because the user already received an apology reply
//     and LINE retries on anything else.
//   - GET /healthz: liveness probe returning {"status":"ok"}.
package http
