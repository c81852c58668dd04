package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, scorers, and other
// infrastructure layers return these (optionally wrapped) so the engine can
// translate them into a degraded-mode verdict instead of failing the request.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrStateUnavailable: velocity backing store cannot be reached
// - ErrScorerUnavailable: model scoring call failed
// - ErrScorerContract: scorer returned a non-numeric or out-of-range value
// - ErrTimeout: an external call exceeded its configured bound
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrStateUnavailable  = errors.New("state unavailable")
	ErrScorerUnavailable = errors.New("scorer unavailable")
	ErrScorerContract    = errors.New("scorer contract violation")
	ErrTimeout           = errors.New("timeout")
)
