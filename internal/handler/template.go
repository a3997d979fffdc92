package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/model"
)

// TemplateStore lists the published course templates.
type TemplateStore interface {
	ListPublic(ctx context.Context) ([]*model.CourseTemplate, error)
}

// TemplateHandler serves the public template catalogue.
type TemplateHandler struct {
	Templates TemplateStore
}

func NewTemplateHandler(templates TemplateStore) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

// List handles GET /templates.
func (h *TemplateHandler) List(c echo.Context) error {
	tpls, err := h.Templates.ListPublic(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": toTemplateParts(tpls)})
}
