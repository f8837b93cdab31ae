// Package httputil fetches CFG payloads from a disassembly backend over HTTP.
//
// [Client.Get] retries transient failures with exponential backoff:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other 4xx responses fail immediately with a [StatusError]. Bodies larger
// than [Client.MaxBytes] are rejected rather than truncated.
//
//	c := httputil.NewClient()
//	payload, err := c.Get(ctx, "http://backend:8000/api/cfg/bin1/0x401000")
package httputil
