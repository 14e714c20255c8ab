// Package feature provides the plugin-like feature loading system.
//
// Each HTTP-facing module implements the Feature interface, which exposes
// its name, whether it is enabled and how it registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registered features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll(), in registration order
//
// The serve command registers the browser feature; further modules plug in
// the same way without touching the server setup.
package feature
