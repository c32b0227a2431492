package social

import (
	"context"
	"errors"

	"github.com/rakawanegan/Emotter/internal/post"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/posts/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		viewer := requesterID(c)
		if viewer == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		liked, err := svc.ToggleLike(c.Context(), viewer, c.Params("id"))
		if err != nil {
			return respondToggleError(err)
		}
		return c.JSON(fiber.Map{
			"liked":    liked,
			"redirect": redirectTarget(c.Query("from")),
		})
	})

	r.Post("/posts/:id/follow", authMiddleware, func(c *fiber.Ctx) error {
		viewer := requesterID(c)
		if viewer == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		following, target, err := svc.ToggleFollow(c.Context(), viewer, c.Params("id"))
		if err != nil {
			return respondToggleError(err)
		}
		return c.JSON(fiber.Map{
			"following": following,
			"target_id": target,
			"redirect":  redirectTarget(c.Query("from")),
		})
	})

	r.Get("/feed/home", authMiddleware, feedHandler(svc.HomeFeed))
	r.Get("/feed/mine", authMiddleware, feedHandler(svc.MyFeed))
	r.Get("/feed/following", authMiddleware, feedHandler(svc.FollowingFeed))

	r.Get("/following", authMiddleware, func(c *fiber.Ctx) error {
		viewer := requesterID(c)
		if viewer == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		following, err := svc.Following(c.Context(), viewer)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"following": following})
	})
}

func feedHandler(list func(ctx context.Context, viewerID string) ([]post.Post, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := requesterID(c)
		if viewer == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		posts, err := list(c.Context(), viewer)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(posts)
	}
}

func requesterID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok && id != "" {
		return id
	}
	return c.Query("user_id")
}

// redirectTarget maps the originating view to the follow-up redirect the
// client should take after a toggle.
func redirectTarget(from string) string {
	if from == "detail" {
		return "detail"
	}
	return "home"
}

func respondToggleError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrStorageUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
