package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/hanghae99-6-d/backend/internal/middleware"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	api := app.Group("/api/v1", middleware.NewIdentityMiddleware())
	RegisterRoutes(api, svc)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, userID, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("User-ID", userID)
	req.Header.Set("Authorization", "Bearer token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	}
	return resp.StatusCode, payload
}

func TestCommentRoutesHappyPath(t *testing.T) {
	store := newMemStore()
	app := newTestApp(NewService(store))

	status, _ := do(t, app, http.MethodPost, "/api/v1/groups/1/comments", "u-1", `{"content":"root"}`)
	require.Equal(t, http.StatusCreated, status)

	status, payload := do(t, app, http.MethodGet, "/api/v1/groups/1/comments", "u-1", "")
	require.Equal(t, http.StatusOK, status)
	comments := payload["comments"].([]any)
	require.Len(t, comments, 1)
	root := comments[0].(map[string]any)
	require.Equal(t, "u-1", root["user"])
	require.NotContains(t, root, "authorId")
	rootID := int64(root["commentId"].(float64))

	status, _ = do(t, app, http.MethodPost, fmt.Sprintf("/api/v1/groups/1/comments/%d/children", rootID), "u-2", `{"content":"reply"}`)
	require.Equal(t, http.StatusCreated, status)

	status, payload = do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/groups/1/comments/%d/children?offset=0", rootID), "u-1", "")
	require.Equal(t, http.StatusOK, status)
	children := payload["comments"].([]any)
	require.Len(t, children, 1)
	childID := int64(children[0].(map[string]any)["commentId"].(float64))
	require.Equal(t, "u-2", children[0].(map[string]any)["user"])

	status, _ = do(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/comments/%d", childID), "u-2", `{"content":"edited"}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", childID), "u-2", "")
	require.Equal(t, http.StatusNoContent, status)

	got, err := store.GetComment(context.Background(), rootID)
	require.NoError(t, err)
	require.Zero(t, got.ChildCount)
}

func TestCommentRoutesErrorMapping(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	app := newTestApp(svc)
	ctx := context.Background()

	root, err := svc.CreateRoot(ctx, 1, "u-1", "root")
	require.NoError(t, err)
	child, err := svc.CreateChild(ctx, 1, root.ID, "u-2", "reply")
	require.NoError(t, err)

	status, payload := do(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/comments/%d", root.ID), "u-3", `{"content":"x"}`)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "comments.update.forbidden", payload["code"])

	status, payload = do(t, app, http.MethodDelete, "/api/v1/comments/999", "u-3", "")
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "comments.destroy.forbidden", payload["code"])

	status, payload = do(t, app, http.MethodGet, "/api/v1/groups/1/comments/999/children", "u-1", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "comments.children.not_found", payload["code"])

	status, payload = do(t, app, http.MethodPost, "/api/v1/groups/1/comments/999/children", "u-1", `{"content":"x"}`)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "comments.create_child.not_found", payload["code"])

	status, payload = do(t, app, http.MethodPost, fmt.Sprintf("/api/v1/groups/1/comments/%d/children", child.ID), "u-1", `{"content":"x"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "comments.create_child.nesting_not_allowed", payload["code"])

	store.failIncrement = errInjected
	status, payload = do(t, app, http.MethodPost, fmt.Sprintf("/api/v1/groups/1/comments/%d/children", root.ID), "u-1", `{"content":"x"}`)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "comments.create_child.transaction_failed", payload["code"])
}

func TestCommentRoutesValidation(t *testing.T) {
	app := newTestApp(NewService(newMemStore()))

	status, payload := do(t, app, http.MethodPost, "/api/v1/groups/1/comments", "u-1", `{"content":""}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "comments.create.validation_failed", payload["code"])

	status, payload = do(t, app, http.MethodPost, "/api/v1/groups/1/comments", "u-1", fmt.Sprintf(`{"content":%q}`, strings.Repeat("a", 1001)))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "comments.create.validation_failed", payload["code"])

	status, payload = do(t, app, http.MethodGet, "/api/v1/groups/abc/comments", "u-1", "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "request.invalid_path_params", payload["code"])

	status, payload = do(t, app, http.MethodGet, "/api/v1/groups/1/comments?offset=-1", "u-1", "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "comments.index.validation_failed", payload["code"])

	status, _ = do(t, app, http.MethodGet, "/api/v1/groups/1/comments", "", "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestCommentRoutesStoreFailureIsInternal(t *testing.T) {
	store := newMemStore()
	store.listErr = errInjected
	app := newTestApp(NewService(store))

	status, payload := do(t, app, http.MethodGet, "/api/v1/groups/1/comments", "u-1", "")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "comments.index.internal_error", payload["code"])
}

func TestAuthorSurvivesLaterRequests(t *testing.T) {
	store := newMemStore()
	app := newTestApp(NewService(store))

	status, _ := do(t, app, http.MethodPost, "/api/v1/groups/1/comments", "alice", `{"content":"root"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/groups/1/comments", "mallo", "")
	require.Equal(t, http.StatusOK, status)

	stored, err := store.GetComment(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "alice", stored.AuthorID)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/comments/1", "mallo", "")
	require.Equal(t, http.StatusForbidden, status)
}
