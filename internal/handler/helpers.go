package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/noah-isme/lentera-go-api/internal/dto"
)

func parseUUIDParam(c *fiber.Ctx, key string) (uuid.UUID, error) {
	raw := c.Params(key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", key)
	}
	return id, nil
}

func parsePageQuery(c *fiber.Ctx) dto.PageQuery {
	page := dto.PageQuery{}
	if raw := c.Query("page"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			page.Page = value
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			page.Limit = value
		}
	}
	return page
}
