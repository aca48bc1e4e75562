package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
)

// authorizeOwner loads the resource with find and lets it through only if
// requesterID owns it. A missing resource is common.ErrorNotFound and is
// reported before ownership is looked at; a foreign one is
// common.ErrAccessDenied.
func authorizeOwner[T models.Owned](ctx context.Context, requesterID, id string, find func(context.Context, string) (T, error)) (T, error) {
	var zero T

	res, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return zero, common.ErrorNotFound
		}
		return zero, fmt.Errorf("error loading resource: %w", err)
	}

	if res.OwnerID() != requesterID {
		return zero, common.ErrAccessDenied
	}

	return res, nil
}
