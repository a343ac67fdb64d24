package track

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		tracks, err := svc.Tracks(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"tracks": tracks})
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Track
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.DogID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "dog_id required")
		}
		req.OwnerID = userID(c)
		created, err := svc.CreateTrack(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	// Shared lookups are public: the code is the capability.
	r.Get("/shared/:code", func(c *fiber.Ctx) error {
		shared, err := svc.SharedTrack(c.Context(), c.Params("code"))
		if errors.Is(err, ErrShareNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shared track not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(shared)
	})

	r.Post("/shared/:code/import", authMiddleware, func(c *fiber.Ctx) error {
		imported, err := svc.ImportShared(c.Context(), c.Params("code"), userID(c))
		if errors.Is(err, ErrShareNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shared track not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(imported)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		tr, err := svc.GetTrack(c.Context(), c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "track not found")
		}
		return c.JSON(tr)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteTrack(c.Context(), c.Params("id"), userID(c)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Post("/:id/share", authMiddleware, func(c *fiber.Ctx) error {
		shareCode, err := svc.ShareTrack(c.Context(), c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"share_code": shareCode})
	})

	r.Get("/:id/export", authMiddleware, func(c *fiber.Ctx) error {
		tr, err := svc.GetTrack(c.Context(), c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "track not found")
		}
		body, err := ExportGPX(tr)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="track-`+tr.ID+`.gpx"`)
		return c.Send(body)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
