package api

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nikmy/klaro/internal/bills"
	"github.com/nikmy/klaro/internal/entity"
	"github.com/nikmy/klaro/internal/shopping"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

func NewServer(cfg Config, log logger.Logger, lists shopping.API, bills bills.API) Server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: len(cfg.Proxy.Trusted) > 0,
		ProxyHeader:             cfg.Proxy.Header,
		TrustedProxies:          cfg.Proxy.Trusted,
		RequestMethods: []string{
			fiber.MethodGet,
			fiber.MethodHead,
			fiber.MethodPost,
			fiber.MethodPatch,
			fiber.MethodDelete,
		},
	}

	s := &server{
		lists:    lists,
		bills:    bills,
		addr:     cfg.HTTP.Addr,
		seedMode: cfg.SeedMode,
		log:      serveLog,
	}

	fiberCfg.ErrorHandler = s.handleError
	s.http = fiber.New(fiberCfg)

	s.setupRoutes()

	return s
}

type server struct {
	lists shopping.API
	bills bills.API

	http     *fiber.App
	addr     string
	seedMode SeedMode
	log      logger.Logger
}

func (s *server) App() *fiber.App {
	return s.http
}

// Serve listens until the listener fails or ctx is done. The caller shuts the server down.
func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Listen(s.addr) }()

	s.log.Infof("listening on %s", s.addr)

	select {
	case err := <-errCh:
		return errors.WrapFail(err, "listen")
	case <-ctx.Done():
		return nil
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return errors.WrapFail(s.http.ShutdownWithContext(ctx), "shutdown http server")
}

func (s *server) setupRoutes() {
	api := s.http.Group("/api")

	api.Get("/health", s.handleHealth)

	lists := api.Group("/shopping-lists")
	lists.Get("/", s.handleListLists)
	lists.Post("/", s.handleCreateList)
	lists.Get("/:listId", s.handleGetList)
	lists.Patch("/:listId", s.handleRenameList)
	lists.Delete("/:listId", s.handleDeleteList)
	lists.Post("/:listId/items", s.handleAddItem)
	lists.Patch("/:listId/items/:itemId", s.handleToggleItem)
	lists.Delete("/:listId/items/:itemId", s.handleRemoveItem)

	bills := api.Group("/bills")
	bills.Get("/", s.handleListBills)
	bills.Post("/", s.handleCreateBill)
	bills.Get("/:billId", s.handleGetBill)
	bills.Patch("/:billId", s.handleUpdateBill)
	bills.Delete("/:billId", s.handleDeleteBill)
}

type health struct {
	Status        string `json:"status"`
	ShoppingLists int    `json:"shoppingLists"`
	Bills         int    `json:"bills"`
}

func (s *server) handleHealth(c *fiber.Ctx) error {
	ctx := c.UserContext()

	listCount, err := s.lists.Count(ctx)
	if err != nil {
		return errors.WrapFail(err, "count shopping lists")
	}

	billCount, err := s.bills.Count(ctx)
	if err != nil {
		return errors.WrapFail(err, "count bills")
	}

	return sendOK(c, health{Status: "ok", ShoppingLists: listCount, Bills: billCount})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func sendOK(c *fiber.Ctx, data any) error {
	return c.Status(http.StatusOK).JSON(envelope{Success: true, Data: data})
}

func sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(envelope{Success: false, Error: msg})
}

// requestError is a failure the client caused, reported with its own message.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return &requestError{status: http.StatusBadRequest, msg: msg}
}

func notFound(msg string) error {
	return &requestError{status: http.StatusNotFound, msg: msg}
}

func (s *server) handleError(c *fiber.Ctx, err error) error {
	var (
		reqErr      *requestError
		invalidErr  *entity.ValidationError
		notFoundErr *entity.NotFoundError
		fiberErr    *fiber.Error
	)

	switch {
	case errors.As(err, &reqErr):
		return sendError(c, reqErr.status, reqErr.msg)
	case errors.As(err, &invalidErr):
		return sendError(c, http.StatusBadRequest, invalidErr.Error())
	case errors.As(err, &notFoundErr):
		return sendError(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &fiberErr):
		return sendError(c, fiberErr.Code, fiberErr.Message)
	}

	s.log.Error(errors.WrapFailf(err, "handle %s %s", c.Method(), c.Path()))
	return sendError(c, http.StatusInternalServerError, "Internal server error")
}

func parseBody(c *fiber.Ctx, out any) error {
	err := c.BodyParser(out)
	if err != nil {
		return badRequest("Invalid JSON body")
	}
	return nil
}
