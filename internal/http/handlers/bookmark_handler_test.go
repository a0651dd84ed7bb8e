package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/i18n"
	"github.com/muinapp/go-fiqh-backend/internal/services"
)

func sampleIssues(n int) []domain.SavedIssue {
	out := make([]domain.SavedIssue, n)
	for i := range out {
		out[i] = domain.SavedIssue{
			ID:        string(rune('a' + i)),
			Title:     "مسألة",
			Content:   "ملخص الحكم",
			Madhab:    domain.MadhabNone,
			Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestListBookmarks_Pagination(t *testing.T) {
	bm := &fakeBmSvc{searchResult: sampleIssues(5)}
	r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, bm, &fakeShareSvc{}, nil, 0))

	w := doJSON(t, r, http.MethodGet, "/api/v1/bookmarks?page=2&page_size=2&q=الحكم", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if bm.gotTerm != "الحكم" {
		t.Errorf("search term = %q", bm.gotTerm)
	}
	resp := decodeJSON[ListBookmarksResponse](t, w)
	if len(resp.Issues) != 2 {
		t.Fatalf("page of %d issues, want 2", len(resp.Issues))
	}
	if resp.Issues[0].ID != "c" || resp.Issues[1].ID != "d" {
		t.Errorf("page contents = %s, %s", resp.Issues[0].ID, resp.Issues[1].ID)
	}
	p := resp.Pagination
	if p.Page != 2 || p.PageSize != 2 || p.Total != 5 || p.TotalPages != 3 || !p.HasNext {
		t.Errorf("pagination = %+v", p)
	}
}

func TestListBookmarks_DefaultsAndOverflow(t *testing.T) {
	bm := &fakeBmSvc{searchResult: sampleIssues(3)}
	r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, bm, &fakeShareSvc{}, nil, 0))

	// Garbage and out-of-range values fall back to sane defaults.
	w := doJSON(t, r, http.MethodGet, "/api/v1/bookmarks?page=zero&page_size=-4", nil, nil)
	resp := decodeJSON[ListBookmarksResponse](t, w)
	if resp.Pagination.Page != 1 || resp.Pagination.PageSize != 1 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}

	// A page past the end is empty but carries the true total.
	w = doJSON(t, r, http.MethodGet, "/api/v1/bookmarks?page=99", nil, nil)
	resp = decodeJSON[ListBookmarksResponse](t, w)
	if len(resp.Issues) != 0 || resp.Pagination.Total != 3 || resp.Pagination.HasNext {
		t.Errorf("overflow page = %+v", resp)
	}
}

func TestToggleBookmark(t *testing.T) {
	msg := domain.Message{ID: "a1", Role: domain.RoleAssistant, Content: "الجواب", Madhab: domain.MadhabMaliki}
	issue := &domain.SavedIssue{ID: "a1", Title: "مسألة", Content: msg.Content, Madhab: msg.Madhab}
	conv := &fakeConvSvc{lang: i18n.Arabic, history: []domain.Message{msg}}
	bm := &fakeBmSvc{toggleSaved: true, toggleIssue: issue}
	r := newTestRouter(New(conv, bm, &fakeShareSvc{}, nil, 0))

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookmarks/toggle",
		ToggleBookmarkRequest{MessageID: "a1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeJSON[ToggleBookmarkResponse](t, w)
	if !resp.Saved || resp.Issue == nil || resp.Issue.ID != "a1" {
		t.Errorf("response = %+v", resp)
	}
	if bm.gotMsg.ID != "a1" || len(bm.gotHistory) != 1 {
		t.Errorf("service saw msg %q with %d history entries", bm.gotMsg.ID, len(bm.gotHistory))
	}
}

func TestToggleBookmark_Errors(t *testing.T) {
	msg := domain.Message{ID: "a1", Role: domain.RoleAssistant, Content: "الجواب"}

	t.Run("missing message_id", func(t *testing.T) {
		r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, &fakeBmSvc{}, &fakeShareSvc{}, nil, 0))
		w := doJSON(t, r, http.MethodPost, "/api/v1/bookmarks/toggle", map[string]string{}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("unknown message", func(t *testing.T) {
		r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, &fakeBmSvc{}, &fakeShareSvc{}, nil, 0))
		w := doJSON(t, r, http.MethodPost, "/api/v1/bookmarks/toggle",
			ToggleBookmarkRequest{MessageID: "nope"}, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		if resp := decodeJSON[ErrorResponse](t, w); resp.Code != ErrCodeNotFound {
			t.Errorf("code = %q", resp.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		conv := &fakeConvSvc{lang: i18n.Arabic, history: []domain.Message{msg}}
		bm := &fakeBmSvc{toggleErr: errors.New("disk full")}
		r := newTestRouter(New(conv, bm, &fakeShareSvc{}, nil, 0))
		w := doJSON(t, r, http.MethodPost, "/api/v1/bookmarks/toggle",
			ToggleBookmarkRequest{MessageID: "a1"}, nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if resp := decodeJSON[ErrorResponse](t, w); resp.Code != ErrCodeToggleFailed {
			t.Errorf("code = %q", resp.Code)
		}
	})
}

func TestRemoveBookmark(t *testing.T) {
	bm := &fakeBmSvc{}
	r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, bm, &fakeShareSvc{}, nil, 0))

	w := doJSON(t, r, http.MethodDelete, "/api/v1/bookmarks/some-id", nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if bm.removedID != "some-id" {
		t.Errorf("removed id = %q", bm.removedID)
	}

	bm.removeErr = errors.New("disk full")
	w = doJSON(t, r, http.MethodDelete, "/api/v1/bookmarks/some-id", nil, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if resp := decodeJSON[ErrorResponse](t, w); resp.Code != ErrCodeRemoveFailed {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestViewBookmark(t *testing.T) {
	issue := &domain.SavedIssue{ID: "b1", Title: "مسألة"}
	bm := &fakeBmSvc{viewIssue: issue}
	r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, bm, &fakeShareSvc{}, nil, 0))

	w := doJSON(t, r, http.MethodPut, "/api/v1/bookmarks/b1/view", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if resp := decodeJSON[SelectedBookmarkResponse](t, w); resp.Issue == nil || resp.Issue.ID != "b1" {
		t.Errorf("response = %+v", resp)
	}

	bm.viewIssue, bm.viewErr = nil, services.ErrBookmarkNotFound
	w = doJSON(t, r, http.MethodPut, "/api/v1/bookmarks/b1/view", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetSelectedBookmark(t *testing.T) {
	issue := &domain.SavedIssue{ID: "b1", Title: "مسألة"}
	bm := &fakeBmSvc{selectedIssue: issue}
	r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, bm, &fakeShareSvc{}, nil, 0))

	w := doJSON(t, r, http.MethodGet, "/api/v1/bookmarks/selected", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	bm.selectedIssue, bm.selectedErr = nil, services.ErrNoSelection
	w = doJSON(t, r, http.MethodGet, "/api/v1/bookmarks/selected", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp := decodeJSON[ErrorResponse](t, w); resp.Code != ErrCodeNoSelection {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestDismissBookmark(t *testing.T) {
	bm := &fakeBmSvc{}
	r := newTestRouter(New(&fakeConvSvc{lang: i18n.Arabic}, bm, &fakeShareSvc{}, nil, 0))

	w := doJSON(t, r, http.MethodDelete, "/api/v1/bookmarks/selected", nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if bm.dismissCalls != 1 {
		t.Errorf("dismissCalls = %d", bm.dismissCalls)
	}
}
