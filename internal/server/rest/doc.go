// Package rest exposes the auth API over HTTP using chi.
//
//	POST /api/auth/register   {email, password} -> 201 {token, user}
//	POST /api/auth/login      {email, password} -> 200 {token, user}
//	GET  /api/auth/me         Bearer token      -> 200 user
//	GET  /api/health                            -> 200 {"status":"healthy", ...}
//	GET  /metrics                               Prometheus exposition
//
// Every error body has the shape {"message": "..."}.
package rest
