package handlers

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID string `json:"id" readOnly:"true" example:"AZkS4e8zc1qcXoZtBfPo9g"`

	First     string    `json:"first"     example:"john"`
	Last      string    `json:"last"      example:"smith"`
	Avatar    string    `json:"avatar"    example:"https://example.com/john.png"`
	Twitter   string    `json:"twitter"   example:"@johnsmith"`
	Notes     string    `json:"notes"     example:"Met at the conference"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt" readOnly:"true"`
}

func newContactModel(c *ds.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID.String(),
		First:     c.First,
		Last:      c.Last,
		Avatar:    c.Avatar,
		Twitter:   c.Twitter,
		Notes:     c.Notes,
		Favorite:  c.Favorite,
		CreatedAt: c.CreatedAt,
	}
}

// ContactPatchModel holds the fields of a partial update, omitted fields are left untouched.
type ContactPatchModel struct {
	First    *string `json:"first,omitempty"    example:"john"`
	Last     *string `json:"last,omitempty"     example:"smith"`
	Avatar   *string `json:"avatar,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body struct {
		Contacts []ContactModel `json:"contacts"`
		Q        string         `json:"q"`
	}
}

func (h *Contacts) list(ctx context.Context, input *struct {
	Q string `query:"q" doc:"case-insensitive search on first and last names"`
}) (*ContactsListOutput, error) {
	contacts, err := h.Store.List(ctx, input.Q)
	if err != nil {
		return nil, err
	}

	out := &ContactsListOutput{}
	out.Body.Q = input.Q
	out.Body.Contacts = make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		out.Body.Contacts = append(out.Body.Contacts, newContactModel(contact))
	}

	return out, nil
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusCreated },
	)
}

type ContactsCreateOutput struct {
	Location string `header:"Location"`
	Body     ContactModel
}

// ContactsCreateInput captures the request path to build the Location of the new contact.
type ContactsCreateInput struct {
	path string
}

// Resolve implements [huma.Resolver].
func (i *ContactsCreateInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.path = u.Path
	return nil
}

func (h *Contacts) create(ctx context.Context, input *ContactsCreateInput) (*ContactsCreateOutput, error) {
	contact, err := h.Store.Create(ctx)
	if err != nil {
		return nil, err
	}

	return &ContactsCreateOutput{
		Location: path.Join(input.path, contact.ID.String()),
		Body:     newContactModel(contact),
	}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactModel
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID string `path:"id" doc:"ID of the contact to get"`
}) (*ContactsGetOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}

	contact, err := h.Store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return &ContactsGetOutput{Body: newContactModel(contact)}, nil
}

func (h *Contacts) RegisterPatch(api huma.API) { // called by [huma.AutoRegister]
	huma.Patch(api, "/{id}",
		handlerWithErrorHandler(h.patch, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) patch(ctx context.Context, input *struct {
	ID   string `path:"id" doc:"ID of the contact to update"`
	Body ContactPatchModel
}) (*ContactsGetOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}

	contact, err := h.Store.Update(ctx, id, &ds.ContactPatch{
		First:    input.Body.First,
		Last:     input.Body.Last,
		Avatar:   input.Body.Avatar,
		Twitter:  input.Body.Twitter,
		Notes:    input.Body.Notes,
		Favorite: input.Body.Favorite,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &ContactsGetOutput{Body: newContactModel(contact)}, nil
}

func (h *Contacts) RegisterDelete(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.delete, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsDeleteOutput struct {
	Body struct {
		Deleted bool `json:"deleted" doc:"whether a contact was removed"`
	}
}

func (h *Contacts) delete(ctx context.Context, input *struct {
	ID string `path:"id" doc:"ID of the contact to delete"`
}) (*ContactsDeleteOutput, error) {
	out := &ContactsDeleteOutput{}

	id, err := ds.ParseContactID(input.ID)
	if err != nil {
		return out, nil //nolint: nilerr // a malformed id is never present
	}

	out.Body.Deleted, err = h.Store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return out, nil
}
