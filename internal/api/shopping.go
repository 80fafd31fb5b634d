package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nikmy/klaro/internal/entity"
	"github.com/nikmy/klaro/pkg/errors"
)

const listNotFound = "Shopping list not found"

type listRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (s *server) handleListLists(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if s.seedMode == SeedOnRequest {
		_, err := s.lists.Seed(ctx)
		if err != nil {
			return errors.WrapFail(err, "seed shopping lists")
		}
	}

	lists, err := s.lists.All(ctx)
	if err != nil {
		return errors.WrapFail(err, "list shopping lists")
	}
	return sendOK(c, lists)
}

func (s *server) handleCreateList(c *fiber.Ctx) error {
	var req listRequest
	err := parseBody(c, &req)
	if err != nil {
		return err
	}

	list, err := s.lists.Create(c.UserContext(), req.Name)
	if err != nil {
		return errors.WrapFail(err, "create shopping list")
	}
	return sendOK(c, list)
}

func (s *server) handleGetList(c *fiber.Ctx) error {
	list, err := s.lists.Get(c.UserContext(), c.Params("listId"))
	if entity.IsNotFound(err) {
		return notFound(listNotFound)
	}
	if err != nil {
		return errors.WrapFail(err, "get shopping list")
	}
	return sendOK(c, list)
}

func (s *server) handleRenameList(c *fiber.Ctx) error {
	var req listRequest
	err := parseBody(c, &req)
	if err != nil {
		return err
	}

	id := c.Params("listId")
	err = s.requireList(c, id)
	if err != nil {
		return err
	}

	list, err := s.lists.Rename(c.UserContext(), id, req.Name)
	if err != nil {
		return errors.WrapFail(err, "rename shopping list")
	}
	return sendOK(c, list)
}

func (s *server) handleDeleteList(c *fiber.Ctx) error {
	id := c.Params("listId")

	found, err := s.lists.Delete(c.UserContext(), id)
	if err != nil {
		return errors.WrapFail(err, "delete shopping list")
	}
	if !found {
		return notFound(listNotFound)
	}
	return sendOK(c, map[string]string{"id": id})
}

func (s *server) handleAddItem(c *fiber.Ctx) error {
	var req itemRequest
	err := parseBody(c, &req)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest("Item name is required")
	}

	id := c.Params("listId")
	err = s.requireList(c, id)
	if err != nil {
		return err
	}

	item, err := s.lists.AddItem(c.UserContext(), id, req.Name, req.Quantity)
	if err != nil {
		return errors.WrapFail(err, "add shopping list item")
	}
	return sendOK(c, item)
}

func (s *server) handleToggleItem(c *fiber.Ctx) error {
	id := c.Params("listId")
	err := s.requireList(c, id)
	if err != nil {
		return err
	}

	list, err := s.lists.ToggleItem(c.UserContext(), id, c.Params("itemId"))
	if err != nil {
		return errors.WrapFail(err, "toggle shopping list item")
	}
	return sendOK(c, list)
}

func (s *server) handleRemoveItem(c *fiber.Ctx) error {
	id := c.Params("listId")
	err := s.requireList(c, id)
	if err != nil {
		return err
	}

	list, err := s.lists.RemoveItem(c.UserContext(), id, c.Params("itemId"))
	if err != nil {
		return errors.WrapFail(err, "remove shopping list item")
	}
	return sendOK(c, list)
}

func (s *server) requireList(c *fiber.Ctx, id string) error {
	exists, err := s.lists.Exists(c.UserContext(), id)
	if err != nil {
		return errors.WrapFail(err, "check shopping list")
	}
	if !exists {
		return notFound(listNotFound)
	}
	return nil
}
