package post

import (
	"errors"

	"github.com/rakawanegan/Emotter/internal/validate"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, val *validate.Validator, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req IngestInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if errs := val.Struct(req); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}

		created, err := svc.Ingest(c.Context(), req)
		if err != nil {
			return respondIngestionError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"post":     created,
			"redirect": "mypost",
		})
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return respondPostError(err)
		}
		return c.JSON(p)
	})

	r.Patch("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil || body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content required")
		}
		p, err := svc.Update(c.Context(), c.Params("id"), requesterID(c), body.Content)
		if err != nil {
			return respondPostError(err)
		}
		return c.JSON(p)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), requesterID(c)); err != nil {
			return respondPostError(err)
		}
		return c.JSON(fiber.Map{"redirect": "mypost"})
	})

	r.Post("/:id/comments", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil || body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content required")
		}
		comment, err := svc.AddComment(c.Context(), c.Params("id"), requesterID(c), body.Content)
		if err != nil {
			return respondPostError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})
}

func requesterID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func respondPostError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func respondIngestionError(c *fiber.Ctx, err error) error {
	var ingErr *IngestionError
	if !errors.As(err, &ingErr) {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	status := fiber.StatusInternalServerError
	switch ingErr.Reason {
	case ReasonMalformedPayload, ReasonNoFace:
		status = fiber.StatusBadRequest
	case ReasonClassifierTimeout:
		status = fiber.StatusGatewayTimeout
	}
	return c.Status(status).JSON(fiber.Map{
		"error":  "ingestion failed",
		"reason": ingErr.Reason,
	})
}
