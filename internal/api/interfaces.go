package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type Server interface {
	Serve(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// App exposes the routes for in-process callers such as the Lambda proxy.
	App() *fiber.App
}
