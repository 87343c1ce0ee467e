// Package validators guards the sync exchange boundary: every upload batch
// and bare user identifier crossing the service layer is checked here
// before it touches storage.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//
// Usage patterns:
//  1. Implement Validator to encode rules for one family of models.
//  2. Inject Validator implementations into services via decorators.
//  3. Call Validate with context, value, and optional field names.
//
// Keeping the rules out of handlers and repositories means the same checks
// protect the HTTP surface and any future transport alike.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
