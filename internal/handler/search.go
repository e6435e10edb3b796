package handler

import (
	"context"

	tele "gopkg.in/telebot.v3"

	"party-finder-bot/internal/format"
	"party-finder-bot/internal/model"
	"party-finder-bot/internal/service"
	"party-finder-bot/internal/session"
)

// maxSearchLength bounds free-text search input.
const maxSearchLength = 100

// SearchHandler covers the global user search with pagination.
type SearchHandler struct {
	search   *service.SearchService
	sessions *session.Store
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(search *service.SearchService, sessions *session.Store) *SearchHandler {
	return &SearchHandler{search: search, sessions: sessions}
}

// ShowMenu shows the search type chooser.
func (h *SearchHandler) ShowMenu(c tele.Context, user *model.User) error {
	lang := user.Language
	_ = h.sessions.Clear(context.Background(), user.TelegramID)
	text := format.MsgChooseSearchType(lang)
	markup := format.SearchMenuKeyboard(lang)
	if c.Callback() != nil {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

// ShowFields shows the searchable attribute chooser.
func (h *SearchHandler) ShowFields(c tele.Context, user *model.User) error {
	lang := user.Language
	return c.Edit(format.MsgChooseSearchField(lang), format.SearchFieldKeyboard(lang))
}

// StartSearch records the chosen attribute and asks for a value.
func (h *SearchHandler) StartSearch(c tele.Context, user *model.User, field model.SearchField) error {
	ctx := context.Background()
	lang := user.Language

	state := &session.State{Kind: session.KindGlobalSearch, SearchField: field}
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return c.Send(format.MsgEnterSearchValue(field, lang))
}

// HandleQuery runs the search for the typed value and shows page one.
func (h *SearchHandler) HandleQuery(c tele.Context, user *model.User, state *session.State) error {
	ctx := context.Background()
	lang := user.Language

	query := c.Text()
	if len(query) == 0 || len(query) > maxSearchLength {
		return c.Send(format.MsgEnterSearchValue(state.SearchField, lang))
	}

	state.SearchQuery = query
	if err := h.sessions.Set(ctx, user.TelegramID, state); err != nil {
		return c.Send(format.MsgError(lang))
	}
	return h.showPage(c, user, state, 1, false)
}

// HandlePage flips to another results page of the active search.
func (h *SearchHandler) HandlePage(c tele.Context, user *model.User, page int) error {
	ctx := context.Background()
	lang := user.Language

	state, err := h.sessions.Get(ctx, user.TelegramID)
	if err != nil || state == nil || state.Kind != session.KindGlobalSearch || state.SearchQuery == "" {
		return c.Send(format.MsgUseMenu(lang))
	}
	return h.showPage(c, user, state, page, true)
}

func (h *SearchHandler) showPage(c tele.Context, user *model.User, state *session.State, page int, edit bool) error {
	ctx := context.Background()
	lang := user.Language

	result, err := h.search.Search(ctx, state.SearchField, state.SearchQuery, page)
	if err != nil {
		return c.Send(format.MsgError(lang))
	}

	view := &format.SearchPageView{
		Users: result.Users,
		Total: result.Total,
		Page:  result.Page,
		Pages: result.Pages,
	}
	text := format.SearchResults(view, lang)
	markup := format.SearchPageKeyboard(result.Page, result.Pages, lang)
	if edit {
		return c.Edit(text, markup, tele.ModeHTML)
	}
	return c.Send(text, markup, tele.ModeHTML)
}
