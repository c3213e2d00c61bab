// Package api serves the solve pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/solve          solve a box list, 201 with the run
//	GET  /v1/runs           list recent runs (?limit=N, default 20)
//	GET  /v1/runs/{id}      fetch one run
//	GET  /v1/runs/{id}/svg  render a run's tower
//	GET  /healthz           liveness
//
// A solve request lists boxes as [height, width, depth] triples:
//
//	{"algorithm": "tabu", "boxes": [[10, 5, 8], [5, 8, 10]], "max_iterations": 200}
//
// Tabu options left out or zero take their defaults; "seed": 0 therefore
// means the default seed.
//
// Errors are JSON objects {"code": "...", "message": "..."} with the HTTP
// status derived from the error code: validation codes map to 400, not-found
// codes to 404, TIMEOUT to 504 and everything else to 500.
package api
