package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"course-media/internal/delivery/http/middleware"
	"course-media/internal/domain/dto"
	"course-media/internal/usecases"
	apperrors "course-media/pkg/errors"
)

type CourseHandler struct {
	courseService usecases.CourseService
}

func NewCourseHandler(courseService usecases.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourse
//
// @Summary      Create course with video upload
// @Description  Accepts a single video file plus course metadata; rejects bad MIME types, oversized files and overlong videos
// @Tags         Courses
// @Accept       multipart/form-data
// @Produce      json
// @Param        title                formData  string true  "Course title"
// @Param        thumbnail_timestamp  formData  string false "Thumbnail frame timestamp (seconds or mm:ss)"
// @Param        video                formData  file   true  "Course video"
// @Success      201  {object}  dto.CourseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	req := &dto.CreateCourseRequest{
		Title:              c.FormValue("title"),
		ThumbnailTimestamp: c.FormValue("thumbnail_timestamp"),
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("video file is required"))
	}

	response, err := h.courseService.CreateCourse(c.Context(), middleware.UserID(c), req, fileHeader)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// DeleteCourse
//
// @Summary      Delete a course
// @Description  Removes the course, its video, thumbnail and cached renditions; owner only
// @Tags         Courses
// @Produce      json
// @Param        id  path  string true "Course ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid course id"))
	}

	if err := h.courseService.DeleteCourse(c.Context(), middleware.UserID(c), courseID); err != nil {
		return apperrors.HandleError(c, err)
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}
