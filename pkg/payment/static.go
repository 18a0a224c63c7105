package payment

import "context"

// Static always returns the configured result, for deterministic wiring in
// tests and local development.
type Static struct {
	Result Result
	Err    error
}

func (p *Static) Charge(_ context.Context, _ string, _ float64) (Result, error) {
	return p.Result, p.Err
}
