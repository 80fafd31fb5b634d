package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nikmy/klaro/internal/bills"
	"github.com/nikmy/klaro/internal/entity"
	"github.com/nikmy/klaro/pkg/errors"
)

const billNotFound = "Bill not found"

type billRequest struct {
	Name    *string  `json:"name"`
	Amount  *float64 `json:"amount"`
	DueDate *string  `json:"dueDate"`
}

func (s *server) handleListBills(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if s.seedMode == SeedOnRequest {
		_, err := s.bills.Seed(ctx)
		if err != nil {
			return errors.WrapFail(err, "seed bills")
		}
	}

	all, err := s.bills.All(ctx)
	if err != nil {
		return errors.WrapFail(err, "list bills")
	}
	return sendOK(c, all)
}

func (s *server) handleCreateBill(c *fiber.Ctx) error {
	var req billRequest
	err := parseBody(c, &req)
	if err != nil {
		return err
	}

	if req.Name == nil || req.Amount == nil || req.DueDate == nil {
		return badRequest("Name, amount, and dueDate are required")
	}

	bill, err := s.bills.Create(c.UserContext(), *req.Name, *req.Amount, *req.DueDate)
	if err != nil {
		return errors.WrapFail(err, "create bill")
	}
	return sendOK(c, bill)
}

func (s *server) handleGetBill(c *fiber.Ctx) error {
	bill, err := s.bills.Get(c.UserContext(), c.Params("billId"))
	if entity.IsNotFound(err) {
		return notFound(billNotFound)
	}
	if err != nil {
		return errors.WrapFail(err, "get bill")
	}
	return sendOK(c, bill)
}

func (s *server) handleUpdateBill(c *fiber.Ctx) error {
	var patch bills.Patch
	err := parseBody(c, &patch)
	if err != nil {
		return err
	}

	id := c.Params("billId")

	exists, err := s.bills.Exists(c.UserContext(), id)
	if err != nil {
		return errors.WrapFail(err, "check bill")
	}
	if !exists {
		return notFound(billNotFound)
	}

	bill, err := s.bills.Update(c.UserContext(), id, patch)
	if err != nil {
		return errors.WrapFail(err, "update bill")
	}
	return sendOK(c, bill)
}

func (s *server) handleDeleteBill(c *fiber.Ctx) error {
	id := c.Params("billId")

	found, err := s.bills.Delete(c.UserContext(), id)
	if err != nil {
		return errors.WrapFail(err, "delete bill")
	}
	if !found {
		return notFound(billNotFound)
	}
	return sendOK(c, map[string]string{"id": id})
}
