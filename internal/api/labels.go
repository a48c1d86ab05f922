package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/idilsaglam/tada/internal/model"
)

// LabelService covers /labels.
type LabelService struct{ c *Client }

// List returns every label of userID.
func (s *LabelService) List(ctx context.Context, userID int) ([]model.Label, error) {
	q, err := scope(userID)
	if err != nil {
		return nil, err
	}
	var out []model.Label
	if err := s.c.do(ctx, "get label", http.MethodGet, "/labels", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Add creates a label for userID.
func (s *LabelService) Add(ctx context.Context, userID int, payload model.NewLabel) (model.Label, error) {
	q, err := scope(userID)
	if err != nil {
		return model.Label{}, err
	}
	var out model.Label
	if err := s.c.do(ctx, "add label", http.MethodPost, "/labels", q, payload, &out); err != nil {
		return model.Label{}, err
	}
	return out, nil
}

// Delete removes label id of userID. Todos are not touched client-side.
func (s *LabelService) Delete(ctx context.Context, id, userID int) error {
	q, err := scope(userID)
	if err != nil {
		return err
	}
	return s.c.do(ctx, "delete label", http.MethodDelete, "/labels/"+strconv.Itoa(id), q, nil, nil)
}
