package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-media/internal/domain/dto"
	apperrors "course-media/pkg/errors"
)

type fakeCourseService struct {
	createResp *dto.CourseResponse
	createErr  error
	deleteErr  error
	lastReq    *dto.CreateCourseRequest
	deletedID  uuid.UUID
}

func (f *fakeCourseService) CreateCourse(ctx context.Context, mentorID uuid.UUID, req *dto.CreateCourseRequest, fh *multipart.FileHeader) (*dto.CourseResponse, error) {
	f.lastReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

func (f *fakeCourseService) DeleteCourse(ctx context.Context, requesterID, courseID uuid.UUID) error {
	f.deletedID = courseID
	return f.deleteErr
}

func newCourseApp(service *fakeCourseService) *fiber.App {
	app := fiber.New()
	h := NewCourseHandler(service)
	app.Post("/courses", h.CreateCourse)
	app.Delete("/courses/:id", h.DeleteCourse)
	return app
}

func multipartUpload(t *testing.T, title, fieldName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("thumbnail_timestamp", "00:05"))
	part, err := w.CreateFormFile(fieldName, "lecture.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("video bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateCourseHandler(t *testing.T) {
	t.Run("creates course from multipart form", func(t *testing.T) {
		service := &fakeCourseService{createResp: &dto.CourseResponse{
			ID:     uuid.NewString(),
			Title:  "Intro",
			Status: "ready",
		}}
		app := newCourseApp(service)

		body, contentType := multipartUpload(t, "Intro", "video")
		req := httptest.NewRequest(http.MethodPost, "/courses", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotNil(t, service.lastReq)
		assert.Equal(t, "Intro", service.lastReq.Title)
		assert.Equal(t, "00:05", service.lastReq.ThumbnailTimestamp)

		var got dto.CourseResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Intro", got.Title)
	})

	t.Run("missing video file is rejected", func(t *testing.T) {
		app := newCourseApp(&fakeCourseService{})

		body, contentType := multipartUpload(t, "Intro", "attachment")
		req := httptest.NewRequest(http.MethodPost, "/courses", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service errors are mapped", func(t *testing.T) {
		service := &fakeCourseService{createErr: apperrors.ErrDurationExceeded(5, 7)}
		app := newCourseApp(service)

		body, contentType := multipartUpload(t, "Long", "video")
		req := httptest.NewRequest(http.MethodPost, "/courses", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var got dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "duration_exceeded", got.Error)
	})
}

func TestDeleteCourseHandler(t *testing.T) {
	t.Run("deletes by id", func(t *testing.T) {
		service := &fakeCourseService{}
		app := newCourseApp(service)
		id := uuid.New()

		req := httptest.NewRequest(http.MethodDelete, "/courses/"+id.String(), nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, id, service.deletedID)
	})

	t.Run("invalid id is rejected", func(t *testing.T) {
		app := newCourseApp(&fakeCourseService{})

		req := httptest.NewRequest(http.MethodDelete, "/courses/abc", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-owner delete is forbidden", func(t *testing.T) {
		app := newCourseApp(&fakeCourseService{deleteErr: apperrors.ErrAccessDenied()})

		req := httptest.NewRequest(http.MethodDelete, "/courses/"+uuid.NewString(), nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

type fakeOrderService struct {
	resp *dto.OrderResponse
	err  error
}

func (f *fakeOrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestCreateOrderHandler(t *testing.T) {
	newApp := func(service *fakeOrderService) *fiber.App {
		app := fiber.New()
		app.Post("/orders", NewOrderHandler(service).CreateOrder)
		return app
	}

	t.Run("records order", func(t *testing.T) {
		service := &fakeOrderService{resp: &dto.OrderResponse{Status: "completed"}}
		app := newApp(service)

		req := httptest.NewRequest(http.MethodPost, "/orders",
			strings.NewReader(`{"course_id":"`+uuid.NewString()+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("unknown course is 404", func(t *testing.T) {
		app := newApp(&fakeOrderService{err: apperrors.ErrNotFound("course", nil)})

		req := httptest.NewRequest(http.MethodPost, "/orders",
			strings.NewReader(`{"course_id":"`+uuid.NewString()+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
