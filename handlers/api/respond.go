package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"memora/utils"
)

// localizerFrom returns the request's localizer, or the default one
// when the locale middleware did not run.
func localizerFrom(c *fiber.Ctx) *i18n.Localizer {
	if localizer, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		return localizer
	}
	return utils.Localizer
}

// message responds with a localized confirmation message.
func message(c *fiber.Ctx, messageID string) error {
	return c.JSON(fiber.Map{
		"message": utils.T(localizerFrom(c), messageID),
	})
}

// ErrorHandler is the fiber error handler: it maps AppError onto its
// status, localized message and classification; everything else becomes
// an opaque internal error so store details never leak.
func ErrorHandler(c *fiber.Ctx, err error) error {
	localizer := localizerFrom(c)

	if appErr, ok := err.(*utils.AppError); ok {
		if appErr.Kind == utils.KindInternal {
			utils.Log.Error("internal error on %s %s: %v", c.Method(), c.Path(), appErr)
		}
		return c.Status(appErr.Code).JSON(fiber.Map{
			"error": utils.T(localizer, appErr.Message),
			"code":  appErr.Kind,
		})
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  utils.KindInternal,
		})
	}

	utils.Log.Error("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(500).JSON(fiber.Map{
		"error": utils.T(localizer, "error_internal"),
		"code":  utils.KindInternal,
	})
}
