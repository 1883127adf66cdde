package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	ds "github.com/oaiiae/huma-contacts/datastores"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	store    ds.ContactsStore
	logger   *slog.Logger
	renderer *Renderer
}

// page loads the sidebar, filtered by the "q" query parameter.
func (h *Handlers) page(r *http.Request) (PageData, error) {
	q := r.URL.Query().Get("q")
	contacts, err := h.store.List(r.Context(), q)
	return PageData{
		Title:    h.renderer.title,
		Q:        q,
		Contacts: contacts,
		ActiveID: r.PathValue("id"),
	}, err
}

// contact loads the contact addressed by the "id" path value.
func (h *Handlers) contact(r *http.Request) (*ds.Contact, error) {
	id, err := ds.ParseContactID(r.PathValue("id"))
	if err != nil {
		return nil, ds.ErrObjectNotFound
	}
	return h.store.Get(r.Context(), id)
}

// HandleIndex handles GET /, the sidebar with an empty detail pane.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := h.page(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, http.StatusOK, "index", data)
}

// HandleCreate handles POST /contacts: creates an empty contact and opens its edit form.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	contact, err := h.store.Create(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/contacts/"+contact.ID.String()+"/edit", http.StatusSeeOther)
}

// HandleDetail handles GET /contacts/{id}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contact(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data, err := h.page(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, http.StatusOK, "detail", DetailPageData{
		PageData: data,
		Contact:  contact,
		Notes:    renderMarkdown(contact.Notes),
	})
}

// HandleFavorite handles POST /contacts/{id}, the favorite toggle,
// whose "favorite" field is the text "true" or "false".
func (h *Handlers) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(form url.Values) *ds.ContactPatch {
		favorite := form.Get("favorite") == "true"
		return &ds.ContactPatch{Favorite: &favorite}
	})
}

// HandleEdit handles GET /contacts/{id}/edit.
func (h *Handlers) HandleEdit(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contact(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data, err := h.page(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, http.StatusOK, "edit", EditPageData{PageData: data, Contact: contact})
}

// HandleUpdate handles POST /contacts/{id}/edit. Only the submitted fields are updated.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, formPatch)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request, patch func(url.Values) *ds.ContactPatch) {
	err := r.ParseForm()
	if err != nil {
		h.renderErrorStatus(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	id, err := ds.ParseContactID(r.PathValue("id"))
	if err != nil {
		h.renderError(w, r, ds.ErrObjectNotFound)
		return
	}
	_, err = h.store.Update(r.Context(), id, patch(r.PostForm))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, detailURL(id, r.URL.Query().Get("q")), http.StatusSeeOther)
}

// detailURL is the detail page of id, keeping the sidebar search q.
func detailURL(id ds.ContactID, q string) string {
	u := url.URL{Path: "/contacts/" + id.String()}
	if q != "" {
		u.RawQuery = url.Values{"q": {q}}.Encode()
	}
	return u.String()
}

// formPatch builds a patch out of the fields present in form.
func formPatch(form url.Values) *ds.ContactPatch {
	field := func(key string) *string {
		if !form.Has(key) {
			return nil
		}
		v := form.Get(key)
		return &v
	}

	patch := &ds.ContactPatch{
		First:   field("first"),
		Last:    field("last"),
		Avatar:  field("avatar"),
		Twitter: field("twitter"),
		Notes:   field("notes"),
	}
	if form.Has("favorite") {
		favorite := form.Get("favorite") == "true"
		patch.Favorite = &favorite
	}
	return patch
}

// HandleDestroy handles POST /contacts/{id}/destroy.
func (h *Handlers) HandleDestroy(w http.ResponseWriter, r *http.Request) {
	id, err := ds.ParseContactID(r.PathValue("id"))
	if err == nil {
		_, err = h.store.Delete(r.Context(), id)
		if err != nil {
			h.renderError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleNotFound renders the not found page for unknown paths.
func (h *Handlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderErrorStatus(w, r, http.StatusNotFound, "Page not found")
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ds.ErrObjectNotFound) {
		h.renderErrorStatus(w, r, http.StatusNotFound, "Contact not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	h.renderErrorStatus(w, r, http.StatusInternalServerError, "Something went wrong")
}

func (h *Handlers) renderErrorStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	data, err := h.page(r)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "could not load sidebar", "err", err)
	}
	h.renderer.renderPage(w, status, "error", ErrorPageData{
		PageData:   data,
		StatusCode: status,
		Message:    message,
	})
}
