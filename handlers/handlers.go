package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

// storeError maps [ds.ErrObjectNotFound] to a 404, other errors are returned as is.
func storeError(err error) error {
	if errors.Is(err, ds.ErrObjectNotFound) {
		return huma.Error404NotFound("id not found", err)
	}
	return err
}

// parseID parses a path identifier, a malformed one is reported as not found.
func parseID(s string) (ds.ContactID, error) {
	id, err := ds.ParseContactID(s)
	if err != nil {
		return id, huma.Error404NotFound("id not found", err)
	}
	return id, nil
}
