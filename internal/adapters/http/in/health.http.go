package in

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
)

// Pinger checks reachability of one dependency; it returns the error a
// failed round-trip produced, or nil when the dependency answered.
type Pinger func(ctx context.Context) error

// HealthHandler answers /health/detailed by round-tripping every storage
// and messaging dependency the core relies on (spec.md §6: "Liveness + DB
// reachability"). Built with named Pingers rather than concrete driver
// handles so the bootstrap wiring stays the only place that knows about
// pgx/mongo-driver/go-redis/amqp091-go connection types.
type HealthHandler struct {
	Postgres Pinger
	Mongo    Pinger
	Redis    Pinger
	RabbitMQ Pinger
}

type dependencyHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Detailed reports liveness of every backing store and broker.
//
//	@Summary		Detailed health check
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	object
//	@Router			/health/detailed [get]
func (handler *HealthHandler) Detailed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	dependencies := []dependencyHealth{
		handler.check(ctx, "postgres", handler.Postgres),
		handler.check(ctx, "mongo", handler.Mongo),
		handler.check(ctx, "redis", handler.Redis),
		handler.check(ctx, "rabbitmq", handler.RabbitMQ),
	}

	allHealthy := true

	for _, dependency := range dependencies {
		if !dependency.Healthy {
			allHealthy = false
			break
		}
	}

	status := fiber.StatusOK
	if !allHealthy {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       map[bool]string{true: "healthy", false: "degraded"}[allHealthy],
		"dependencies": dependencies,
	})
}

func (handler *HealthHandler) check(ctx context.Context, name string, ping Pinger) dependencyHealth {
	if ping == nil {
		return dependencyHealth{Name: name, Healthy: true}
	}

	if err := ping(ctx); err != nil {
		common.NewLoggerFromContext(ctx).Errorf("health check failed for %s: %v", name, err)
		return dependencyHealth{Name: name, Healthy: false, Error: err.Error()}
	}

	return dependencyHealth{Name: name, Healthy: true}
}
