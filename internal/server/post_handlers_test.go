package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnector/internal/config"
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository mocks repository.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockPostRepository) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	args := m.Called(ctx, postID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockPostRepository) RemoveComment(ctx context.Context, postID, commentID uint) error {
	args := m.Called(ctx, postID, commentID)
	return args.Error(0)
}

// MockProfileRepository mocks repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// newTestApp wires a fiber app around a Server backed by the given mocks,
// with every request authenticated as user 1.
func newTestApp(postRepo *MockPostRepository, profileRepo *MockProfileRepository, policy string) (*fiber.App, *Server) {
	s := &Server{
		postService: service.NewPostService(postRepo, profileRepo, policy),
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	return app, s
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeErrorResponse(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	return errResp
}

func TestTestPosts(t *testing.T) {
	app, s := newTestApp(new(MockPostRepository), new(MockProfileRepository), config.CommentDeleteOpen)
	app.Get("/test", s.TestPosts)

	resp, err := app.Test(jsonRequest("GET", "/test", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"msg":"Posts works"}`, string(body))
}

func TestGetPostsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
		app.Get("/posts", s.GetPosts)

		mockPost.On("List", mock.Anything).Return([]*models.Post{
			{ID: 2, Text: "the newer post"},
			{ID: 1, Text: "the older post"},
		}, nil)

		resp, err := app.Test(jsonRequest("GET", "/posts", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var posts []models.Post
		require.NoError(t, json.Unmarshal(body, &posts))
		require.Len(t, posts, 2)
		assert.Equal(t, uint(2), posts[0].ID)
		mockPost.AssertExpectations(t)
	})

	t.Run("Empty List", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
		app.Get("/posts", s.GetPosts)

		mockPost.On("List", mock.Anything).Return([]*models.Post{}, nil)

		resp, err := app.Test(jsonRequest("GET", "/posts", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("Repository Error", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
		app.Get("/posts", s.GetPosts)

		mockPost.On("List", mock.Anything).Return(nil, models.NewInternalError(assert.AnError))

		resp, err := app.Test(jsonRequest("GET", "/posts", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestGetPostHandler(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*MockPostRepository)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "Success",
			target: "/posts/7",
			setupMock: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(7)).Return(&models.Post{ID: 7, Text: "found it"}, nil)
			},
			expectedStatus: fiber.StatusOK,
		},
		{
			name:   "Not Found",
			target: "/posts/99",
			setupMock: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("Post", uint(99)))
			},
			expectedStatus: fiber.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "Invalid ID",
			target:         "/posts/abc",
			setupMock:      func(m *MockPostRepository) {},
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPost := new(MockPostRepository)
			app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
			app.Get("/posts/:id", s.GetPost)
			tt.setupMock(mockPost)

			resp, err := app.Test(jsonRequest("GET", tt.target, ""))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedCode != "" {
				errResp := decodeErrorResponse(t, resp)
				assert.Equal(t, tt.expectedCode, errResp.Code)
			}
			mockPost.AssertExpectations(t)
		})
	}
}

func TestCreatePostHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
		app.Post("/posts", s.CreatePost)

		mockPost.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Post).ID = 1
			}).Return(nil)
		mockPost.On("GetByID", mock.Anything, uint(1)).Return(&models.Post{
			ID:     1,
			Text:   "a brand new post body",
			UserID: 1,
			Likes:  []models.Like{},
		}, nil)

		resp, err := app.Test(jsonRequest("POST", "/posts",
			`{"text":"a brand new post body","name":"alice","avatar":"http://example.com/a.png"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var post models.Post
		require.NoError(t, json.Unmarshal(body, &post))
		assert.Equal(t, uint(1), post.ID)
		assert.Equal(t, uint(1), post.UserID)
		mockPost.AssertExpectations(t)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
		app.Post("/posts", s.CreatePost)

		resp, err := app.Test(jsonRequest("POST", "/posts", `{"text":"short"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		errResp := decodeErrorResponse(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
		assert.Contains(t, errResp.Fields, "text")
		mockPost.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
		app.Post("/posts", s.CreatePost)

		resp, err := app.Test(jsonRequest("POST", "/posts", `{not json`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockPostRepository)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Owner Deletes",
			setupMock: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, UserID: 1}, nil)
				m.On("Delete", mock.Anything, uint(5)).Return(nil)
			},
			expectedStatus: fiber.StatusOK,
		},
		{
			name: "Not Owner",
			setupMock: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, UserID: 2}, nil)
			},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name: "Not Found",
			setupMock: func(m *MockPostRepository) {
				m.On("GetByID", mock.Anything, uint(5)).Return(nil, models.NewNotFoundError("Post", uint(5)))
			},
			expectedStatus: fiber.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPost := new(MockPostRepository)
			app, s := newTestApp(mockPost, new(MockProfileRepository), config.CommentDeleteOpen)
			app.Delete("/posts/:id", s.DeletePost)
			tt.setupMock(mockPost)

			resp, err := app.Test(jsonRequest("DELETE", "/posts/5", ""))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.JSONEq(t, `{"success":true}`, string(body))
			} else {
				errResp := decodeErrorResponse(t, resp)
				assert.Equal(t, tt.expectedCode, errResp.Code)
			}
			mockPost.AssertExpectations(t)
		})
	}
}

func TestLikePostHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		mockProfile := new(MockProfileRepository)
		app, s := newTestApp(mockPost, mockProfile, config.CommentDeleteOpen)
		app.Post("/posts/like/:id", s.LikePost)

		mockProfile.On("GetByUserID", mock.Anything, uint(1)).Return(&models.Profile{ID: 1, UserID: 1}, nil)
		mockPost.On("GetByID", mock.Anything, uint(3)).Return(&models.Post{
			ID:    3,
			Likes: []models.Like{{ID: 1, UserID: 1, PostID: 3}},
		}, nil)
		mockPost.On("IsLiked", mock.Anything, uint(1), uint(3)).Return(false, nil)
		mockPost.On("Like", mock.Anything, uint(1), uint(3)).Return(nil)

		resp, err := app.Test(jsonRequest("POST", "/posts/like/3", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var post models.Post
		require.NoError(t, json.Unmarshal(body, &post))
		require.Len(t, post.Likes, 1)
		assert.Equal(t, uint(1), post.Likes[0].UserID)
		mockPost.AssertExpectations(t)
	})

	t.Run("Already Liked", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		mockProfile := new(MockProfileRepository)
		app, s := newTestApp(mockPost, mockProfile, config.CommentDeleteOpen)
		app.Post("/posts/like/:id", s.LikePost)

		mockProfile.On("GetByUserID", mock.Anything, uint(1)).Return(&models.Profile{ID: 1, UserID: 1}, nil)
		mockPost.On("GetByID", mock.Anything, uint(3)).Return(&models.Post{ID: 3}, nil)
		mockPost.On("IsLiked", mock.Anything, uint(1), uint(3)).Return(true, nil)

		resp, err := app.Test(jsonRequest("POST", "/posts/like/3", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		errResp := decodeErrorResponse(t, resp)
		assert.Equal(t, "ALREADY_LIKED", errResp.Code)
		mockPost.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No Profile", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		mockProfile := new(MockProfileRepository)
		app, s := newTestApp(mockPost, mockProfile, config.CommentDeleteOpen)
		app.Post("/posts/like/:id", s.LikePost)

		mockProfile.On("GetByUserID", mock.Anything, uint(1)).Return(nil, nil)

		resp, err := app.Test(jsonRequest("POST", "/posts/like/3", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		errResp := decodeErrorResponse(t, resp)
		assert.Equal(t, "NO_PROFILE", errResp.Code)
		mockPost.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Post Not Found", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		mockProfile := new(MockProfileRepository)
		app, s := newTestApp(mockPost, mockProfile, config.CommentDeleteOpen)
		app.Post("/posts/like/:id", s.LikePost)

		mockProfile.On("GetByUserID", mock.Anything, uint(1)).Return(&models.Profile{ID: 1, UserID: 1}, nil)
		mockPost.On("GetByID", mock.Anything, uint(42)).Return(nil, models.NewNotFoundError("Post", uint(42)))

		resp, err := app.Test(jsonRequest("POST", "/posts/like/42", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestUnlikePostHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		mockProfile := new(MockProfileRepository)
		app, s := newTestApp(mockPost, mockProfile, config.CommentDeleteOpen)
		app.Post("/posts/unlike/:id", s.UnlikePost)

		mockProfile.On("GetByUserID", mock.Anything, uint(1)).Return(&models.Profile{ID: 1, UserID: 1}, nil)
		mockPost.On("GetByID", mock.Anything, uint(3)).Return(&models.Post{ID: 3, Likes: []models.Like{}}, nil)
		mockPost.On("IsLiked", mock.Anything, uint(1), uint(3)).Return(true, nil)
		mockPost.On("Unlike", mock.Anything, uint(1), uint(3)).Return(nil)

		resp, err := app.Test(jsonRequest("POST", "/posts/unlike/3", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		mockPost.AssertExpectations(t)
	})

	t.Run("Not Liked", func(t *testing.T) {
		mockPost := new(MockPostRepository)
		mockProfile := new(MockProfileRepository)
		app, s := newTestApp(mockPost, mockProfile, config.CommentDeleteOpen)
		app.Post("/posts/unlike/:id", s.UnlikePost)

		mockProfile.On("GetByUserID", mock.Anything, uint(1)).Return(&models.Profile{ID: 1, UserID: 1}, nil)
		mockPost.On("GetByID", mock.Anything, uint(3)).Return(&models.Post{ID: 3}, nil)
		mockPost.On("IsLiked", mock.Anything, uint(1), uint(3)).Return(false, nil)

		resp, err := app.Test(jsonRequest("POST", "/posts/unlike/3", ""))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		errResp := decodeErrorResponse(t, resp)
		assert.Equal(t, "NOT_LIKED", errResp.Code)
		mockPost.AssertNotCalled(t, "Unlike", mock.Anything, mock.Anything, mock.Anything)
	})
}
