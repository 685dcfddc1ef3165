package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"starwars-api/internal/service"
)

// ResourceHandler serves one catalogue kind; the router mounts one per kind.
type ResourceHandler struct {
	resourceService *service.ResourceService
}

func NewResourceHandler(resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// GetResources lists all rows of the kind --> /people, /planets, /vehicles
func (rh *ResourceHandler) GetResources(c echo.Context) error {
	resources, err := rh.resourceService.GetResources(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	if len(resources) == 0 {
		return respond(c, http.StatusNotFound, rh.resourceService.Kind().Plural()+" not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"msg": "ok", "results": resources})
}

// GetResource gets one row --> /people/:id, /planets/:id, /vehicles/:id
func (rh *ResourceHandler) GetResource(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "Invalid ID")
	}

	resource, err := rh.resourceService.GetResource(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return respond(c, http.StatusNotFound, rh.resourceService.Kind().Label()+" not exist")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, resource)
}

// CreateResource adds a row unless the name is taken
func (rh *ResourceHandler) CreateResource(c echo.Context) error {
	var req ResourceRequest
	if err := decode(c, &req); err != nil {
		return respond(c, http.StatusBadRequest, err.Error())
	}

	label := rh.resourceService.Kind().Label()
	resource, err := rh.resourceService.CreateResource(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			return respond(c, http.StatusConflict, label+" already exists")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"msg": label + " created", "result": resource})
}

// DeleteResource removes a row together with the favorites pointing at it
func (rh *ResourceHandler) DeleteResource(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "Invalid ID")
	}

	label := rh.resourceService.Kind().Label()
	if err := rh.resourceService.DeleteResource(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return respond(c, http.StatusNotFound, label+" not exist")
		}
		return internalError(c, err)
	}

	return respond(c, http.StatusOK, label+" deleted")
}
