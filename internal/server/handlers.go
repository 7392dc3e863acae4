package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lumo-app/lumo/internal/itemstore"
)

type idInput struct {
	ID *int64 `json:"id"`
}

type deleteResult struct {
	Success bool `json:"success"`
}

// health reports that the sidecar is up.
// GET /health
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// POST /rpc/item/list
func (s *Server) listItems(c echo.Context) error {
	items, err := s.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// POST /rpc/item/get {"id": 1}
func (s *Server) getItem(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	item, err := s.store.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// POST /rpc/item/create {"name": "...", "description": "..."}
func (s *Server) createItem(c echo.Context) error {
	var in itemstore.CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	item, err := s.store.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// POST /rpc/item/update {"id": 1, "name": "...", "description": "..."}
func (s *Server) updateItem(c echo.Context) error {
	var in struct {
		ID          *int64  `json:"id"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if in.ID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	item, err := s.store.Update(c.Request().Context(), itemstore.UpdateInput{
		ID:          *in.ID,
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// POST /rpc/item/delete {"id": 1}
func (s *Server) deleteItem(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}
	if err := s.store.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResult{Success: true})
}

func bindID(c echo.Context) (int64, error) {
	var in idInput
	if err := c.Bind(&in); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if in.ID == nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	return *in.ID, nil
}
