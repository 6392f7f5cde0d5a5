package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/service"
)

// SeedHandler loads course catalogues.
type SeedHandler struct {
	catalogueService service.CatalogueService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(catalogueService service.CatalogueService) *SeedHandler {
	return &SeedHandler{catalogueService: catalogueService}
}

// SeedCatalogueResponse represents the seed response.
type SeedCatalogueResponse struct {
	Message string `json:"message"`
	service.ImportStats
}

// SeedCatalogue godoc
// @Summary Import courses and units
// @Description Body is a JSON array of {course_name, units:[{unit_code, unit_name, lecturer, year, semester}]}.
// @Description Courses are matched by name and units by course and unit code.
// @Tags superadmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []service.CatalogueCourse true "Catalogue"
// @Success 200 {object} SeedCatalogueResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/catalogue [post]
func (h *SeedHandler) SeedCatalogue(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest("failed to read request body")
	}
	courses, err := service.ParseCatalogue(body)
	if err != nil {
		return badRequest("invalid catalogue")
	}

	stats, err := h.catalogueService.Import(c.Request().Context(), courses)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, SeedCatalogueResponse{
		Message:     "catalogue imported",
		ImportStats: *stats,
	})
}
