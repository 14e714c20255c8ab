package browser

import (
	"errors"

	"asset-core/core/asset"
	"asset-core/core/logger"
	"asset-core/core/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the browser API.
type Handler struct {
	service *Service
	metrics *metrics.Collector
}

// NewHandler creates a new HTTP handler. m may be nil, which disables /metrics.
func NewHandler(service *Service, m *metrics.Collector) *Handler {
	return &Handler{service: service, metrics: m}
}

// RegisterRoutes registers the browser routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/", h.HandleListCatalog)
	group.Post("/scan", h.HandleScan)
	group.Get("/:id", h.HandleGetRecord)
	group.Get("/:id/dependencies", h.HandleDependencies)
	group.Get("/:id/dependents", h.HandleDependents)

	app.Get("/registry", h.HandleRegistry)
	app.Get("/loader/progress", h.HandleProgress)

	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}
}

// HandleListCatalog returns every catalog record.
func (h *Handler) HandleListCatalog(c *fiber.Ctx) error {
	recs, err := h.service.Records(c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(recs)
}

// HandleGetRecord returns one catalog record.
func (h *Handler) HandleGetRecord(c *fiber.Ctx) error {
	id, err := asset.ParseID(c.Params("id"))
	if err != nil {
		return badID(c)
	}
	rec, err := h.service.Record(id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}

// HandleDependencies returns the IDs an asset references.
func (h *Handler) HandleDependencies(c *fiber.Ctx) error {
	id, err := asset.ParseID(c.Params("id"))
	if err != nil {
		return badID(c)
	}
	deps, err := h.service.Dependencies(id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id.String(), "dependencies": deps})
}

// HandleDependents returns the IDs referencing an asset.
func (h *Handler) HandleDependents(c *fiber.Ctx) error {
	id, err := asset.ParseID(c.Params("id"))
	if err != nil {
		return badID(c)
	}
	return c.JSON(fiber.Map{"id": id.String(), "dependents": h.service.Dependents(id)})
}

// HandleScan rescans the assets folder.
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	res := h.service.Scan()
	logger.WithRayID(h.service.logger, c).Info("Catalog rescanned", zap.Int("assets", res.Assets))
	return c.JSON(res)
}

// HandleRegistry returns the cached assets.
func (h *Handler) HandleRegistry(c *fiber.Ctx) error {
	cached, err := h.service.Cached(c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cached)
}

// HandleProgress returns the loader counters.
func (h *Handler) HandleProgress(c *fiber.Ctx) error {
	return c.JSON(h.service.Progress())
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, asset.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrUnknownType):
		status = fiber.StatusBadRequest
	default:
		logger.WithRayID(h.service.logger, c).Error("Browser request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid asset id"})
}
