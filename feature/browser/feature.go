package browser

import (
	"asset-core/core/metrics"
	"asset-core/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the feature.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the browser feature over an open session.
func NewFeature(s *session.Session, m *metrics.Collector, logger *zap.Logger) *Feature {
	svc := NewService(s, logger)
	return &Feature{service: svc, handler: NewHandler(svc, m)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "browser"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
