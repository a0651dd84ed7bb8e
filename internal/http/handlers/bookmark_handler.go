// Bookmark HTTP handlers.
//
// This file exposes REST endpoints for saved issues:
//   - GET    /bookmarks               (list/search, paginated)
//   - POST   /bookmarks/toggle        (save or unsave a conversation message)
//   - DELETE /bookmarks/{id}          (remove a saved issue)
//   - PUT    /bookmarks/{id}/view     (inspect a saved issue)
//   - GET    /bookmarks/selected      (currently inspected issue)
//   - DELETE /bookmarks/selected      (dismiss the inspection)
//
// Toggling references a message from the live conversation by id; the handler
// resolves it against the conversation history before delegating to the
// bookmark service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/services"
	"github.com/muinapp/go-fiqh-backend/internal/utils"
)

//
// DTOs
//

// ToggleBookmarkRequest is the JSON payload for saving or unsaving a message.
type ToggleBookmarkRequest struct {
	// MessageID references a message in the current conversation.
	MessageID string `json:"message_id" binding:"required,min=1" example:"3d2a9f0e-1b2c-4d5e-8f6a-7b8c9d0e1f2a"`
}

// ToggleBookmarkResponse reports the outcome of a toggle.
type ToggleBookmarkResponse struct {
	// Saved is true when the message was bookmarked, false when it was removed.
	Saved bool `json:"saved"`
	// Issue is the saved issue created by the toggle; null when removing.
	Issue *domain.SavedIssue `json:"issue,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// ListBookmarksResponse wraps a page of saved issues and pagination metadata.
type ListBookmarksResponse struct {
	Issues     []domain.SavedIssue `json:"issues"`
	Pagination Pagination          `json:"pagination"`
}

// SelectedBookmarkResponse wraps the currently inspected issue.
type SelectedBookmarkResponse struct {
	Issue *domain.SavedIssue `json:"issue"`
}

//
// Helpers
//

// clampPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// pageSlice returns the requested page of issues without copying the backing
// collection, plus the total count.
func pageSlice(issues []domain.SavedIssue, page, pageSize int) ([]domain.SavedIssue, int) {
	total := len(issues)
	start := (page - 1) * pageSize
	if start >= total {
		return []domain.SavedIssue{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return issues[start:end], total
}

//
// Handlers
//

// ListBookmarks godoc
// @ID          listBookmarks
// @Summary     List or search saved issues
// @Description Returns saved issues, newest first. The optional q parameter
// @Description filters by substring match over title, content, and the madhab
// @Description label in either language.
// @Tags        Bookmarks
// @Produce     json
//
// @Param       q          query  string  false "Search term"
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListBookmarksResponse
// @Router      /bookmarks [get]
func (h *Handlers) ListBookmarks(c *gin.Context) {
	page, pageSize := clampPagination(c)

	matches := h.bmSvc.Search(c.Query("q"))
	items, total := pageSlice(matches, page, pageSize)

	totalPages := (total + pageSize - 1) / pageSize
	ok(c, http.StatusOK, ListBookmarksResponse{
		Issues: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// ToggleBookmark godoc
// @ID          toggleBookmark
// @Summary     Save or unsave a conversation message
// @Description Saves the referenced message as an issue, deriving its title
// @Description from the preceding user question. Toggling an already-saved
// @Description message removes it instead.
// @Tags        Bookmarks
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ToggleBookmarkRequest  true  "Message reference"
// @Success     200  {object}  handlers.ToggleBookmarkResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Message not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /bookmarks/toggle [post]
func (h *Handlers) ToggleBookmark(c *gin.Context) {
	ctx := c.Request.Context()

	var req ToggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message_id required")
		return
	}

	msg, err := h.convSvc.MessageByID(req.MessageID)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
		return
	}

	saved, issue, err := h.bmSvc.Toggle(ctx, h.convSvc.History(), *msg)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeToggleFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ToggleBookmarkResponse{Saved: saved, Issue: issue})
}

// RemoveBookmark godoc
// @ID          removeBookmark
// @Summary     Remove a saved issue
// @Description Deletes the saved issue with the given id. Removing an id that
// @Description is not saved succeeds without effect.
// @Tags        Bookmarks
// @Param       id  path  string  true  "Saved issue ID"
// @Success     204  "Removed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /bookmarks/{id} [delete]
func (h *Handlers) RemoveBookmark(c *gin.Context) {
	if err := h.bmSvc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeRemoveFailed, err.Error())
		return
	}
	noContent(c)
}

// ViewBookmark godoc
// @ID          viewBookmark
// @Summary     Inspect a saved issue
// @Description Marks the saved issue as the one being inspected and returns it.
// @Tags        Bookmarks
// @Produce     json
// @Param       id  path  string  true  "Saved issue ID"
// @Success     200  {object}  handlers.SelectedBookmarkResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Saved issue not found"
// @Router      /bookmarks/{id}/view [put]
func (h *Handlers) ViewBookmark(c *gin.Context) {
	issue, err := h.bmSvc.View(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "saved issue not found")
		return
	}
	ok(c, http.StatusOK, SelectedBookmarkResponse{Issue: issue})
}

// GetSelectedBookmark godoc
// @ID          getSelectedBookmark
// @Summary     Get the inspected saved issue
// @Tags        Bookmarks
// @Produce     json
// @Success     200  {object}  handlers.SelectedBookmarkResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Nothing inspected"
// @Router      /bookmarks/selected [get]
func (h *Handlers) GetSelectedBookmark(c *gin.Context) {
	issue, err := h.bmSvc.Selected()
	if err != nil {
		switch err {
		case services.ErrNoSelection:
			fail(c, http.StatusNotFound, ErrCodeNoSelection, "no saved issue selected")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, SelectedBookmarkResponse{Issue: issue})
}

// DismissBookmark godoc
// @ID          dismissBookmark
// @Summary     Dismiss the inspected saved issue
// @Description Clears the inspection state. Dismissing with nothing inspected
// @Description succeeds without effect.
// @Tags        Bookmarks
// @Success     204  "Dismissed"
// @Router      /bookmarks/selected [delete]
func (h *Handlers) DismissBookmark(c *gin.Context) {
	h.bmSvc.Dismiss()
	noContent(c)
}
