// Package http provides HTTP handlers and middleware for the membership API.
//
// The router exposes the following endpoints:
//   - POST /registration, GET /registration/{uid}, PATCH /registration/{uid}/status:
//     registration intake and backoffice review, exchanging the memberDTO payload
//     defined in member_handler.go. GET /users/status?phone= reports the review
//     state for a phone number.
//   - POST /meetings, GET /meetings: organizer meeting management. GET /meetings/mine
//     lists meetings with the caller's attendance marks. POST /meetings/{id}/attendance
//     records geofence-checked attendance for the authenticated member.
//   - POST /oneonone plus GET /oneonone/{my,received,sent,between} and
//     PATCH /oneonone/{id}/{approve,reschedule,reschedule/accept,reschedule/reject,complete}:
//     the peer meeting request lifecycle, exchanging the oneOnOneDTO payload defined
//     in oneonone_handler.go.
//   - GET/PUT /business/me and GET /business/by-uid: business directory profiles.
//   - POST /referrals, GET /referrals/{given,taken},
//     PATCH /referrals/{id}/{status,confirm,thank-note}: the referral lifecycle.
//   - POST /requirements, GET /requirements/{public,me},
//     POST/GET /requirements/{id}/responses: open requirements and responses.
//   - GET /search/members: the authenticated member directory search.
//   - GET /stats/overview, GET /health, GET /metrics: dashboard counters,
//     liveness, and Prometheus scrape.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
