package live

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/uxmariia/DOG-TRACKING-228/internal/gps"
	"github.com/uxmariia/DOG-TRACKING-228/internal/session"
)

func RegisterRoutes(r fiber.Router, mgr *Manager, store *Store, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req StartRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id, err := mgr.StartSession(c.Context(), userID(c), req)
		if errors.Is(err, ErrBadMode) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_id": id, "state": session.StateRunning.String()})
	})

	// Observer view by id, no account needed.
	r.Get("/sessions/:id", func(c *fiber.Ctx) error {
		sess, err := store.Get(c.Context(), c.Params("id"))
		if errors.Is(err, ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sess)
	})

	r.Post("/sessions/:id/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var fix gps.Fix
		if err := c.BodyParser(&fix); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		accepted, err := mgr.IngestFix(c.Params("id"), userID(c), fix)
		if errors.Is(err, ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"accepted": accepted})
	})

	r.Post("/sessions/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := mgr.Recorder(c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err := rec.Pause(); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(fiber.Map{"state": rec.State().String()})
	})

	r.Post("/sessions/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := mgr.Recorder(c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err := rec.Resume(); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(fiber.Map{"state": rec.State().String()})
	})

	r.Post("/sessions/:id/finish", authMiddleware, func(c *fiber.Ctx) error {
		result, err := mgr.Finish(c.Context(), c.Params("id"), userID(c))
		if errors.Is(err, ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err != nil {
			// no points, already finished, not active
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(fiber.Map{
			"mode":          string(result.Mode),
			"points":        result.Points,
			"found_objects": result.FoundObjects,
		})
	})

	r.Get("/sessions/:id/objects/pending", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := mgr.Recorder(c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.JSON(fiber.Map{"pending": rec.PendingObjects()})
	})

	r.Post("/sessions/:id/objects/:objectID/confirm", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := mgr.Recorder(c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err := rec.ConfirmFound(c.Params("objectID")); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(fiber.Map{"found_objects": rec.FoundObjects()})
	})

	r.Post("/sessions/:id/objects/mark", authMiddleware, func(c *fiber.Ctx) error {
		rec, err := mgr.Recorder(c.Params("id"), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		if err := rec.MarkFound(); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(fiber.Map{"found_objects": rec.FoundObjects()})
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
