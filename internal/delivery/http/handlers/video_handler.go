package handlers

import (
	"io"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"course-media/internal/delivery/http/middleware"
	"course-media/internal/domain/dto"
	"course-media/internal/usecases"
	apperrors "course-media/pkg/errors"
	"course-media/pkg/httprange"
)

// PreviewByteLimit caps how much of the original file an unentitled preview
// request may receive.
const PreviewByteLimit int64 = 1 << 20 // 1 MiB

// PreviewDurationSeconds is advisory: the client stops playback on its own
// timer, the server only caps bytes.
const PreviewDurationSeconds = 10

type VideoHandler struct {
	access  usecases.AccessService
	streams usecases.StreamService
}

func NewVideoHandler(access usecases.AccessService, streams usecases.StreamService) *VideoHandler {
	return &VideoHandler{access: access, streams: streams}
}

// Info
//
// @Summary      Video info
// @Description  Returns duration, thumbnail availability and access role for a course video
// @Tags         Videos
// @Produce      json
// @Param        courseId  path      string true "Course ID"
// @Success      200       {object}  dto.VideoInfoResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /videos/{courseId}/info [get]
func (h *VideoHandler) Info(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid course id"))
	}

	decision, err := h.access.CanAccess(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	if !decision.Allowed {
		return apperrors.HandleError(c, apperrors.ErrAccessDenied())
	}

	course, err := h.streams.GetCourse(c.Context(), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	renditions, err := h.streams.Renditions(c.Context(), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	return c.JSON(dto.VideoInfoResponse{
		Title:           course.Title,
		DurationSeconds: course.DurationSeconds,
		HasThumbnail:    course.ThumbnailPath != "",
		CanAccess:       decision.Allowed,
		Role:            decision.Role,
		Renditions:      renditions,
	})
}

// Stream
//
// @Summary      Stream course video
// @Description  Streams the original video honoring byte-range requests; unentitled requests may ask for a truncated preview
// @Tags         Videos
// @Produce      video/mp4
// @Param        courseId  path   string true  "Course ID"
// @Param        preview   query  bool   false "Serve a truncated preview when not entitled"
// @Success      200
// @Success      206
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      416  {object}  dto.ErrorResponse
// @Router       /videos/{courseId}/stream [get]
func (h *VideoHandler) Stream(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid course id"))
	}

	decision, err := h.access.CanAccess(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	if !decision.Allowed {
		// Explicit preview requests fall through to the truncated stream;
		// everything else terminates before any bytes are resolved.
		if c.Query("preview") != "true" {
			return apperrors.HandleError(c, apperrors.ErrAccessDenied())
		}
		source, err := h.streams.ResolveOriginal(c.Context(), courseID)
		if err != nil {
			return apperrors.HandleError(c, err)
		}
		return h.servePreview(c, source)
	}

	source, err := h.streams.ResolveOriginal(c.Context(), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return h.serveRange(c, source)
}

// StreamCompressed
//
// @Summary      Stream a quality-tiered rendition
// @Description  Streams the requested quality tier, transcoding and caching it on first request
// @Tags         Videos
// @Produce      video/mp4
// @Param        courseId  path   string true "Course ID"
// @Param        quality   query  string true "Quality tier (low|medium|high)"
// @Success      200
// @Success      206
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /videos/{courseId}/stream-compressed [get]
func (h *VideoHandler) StreamCompressed(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid course id"))
	}

	decision, err := h.access.CanAccess(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	if !decision.Allowed {
		return apperrors.HandleError(c, apperrors.ErrAccessDenied())
	}

	source, err := h.streams.ResolveRendition(c.Context(), courseID, c.Query("quality"))
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return h.serveRange(c, source)
}

// Playlist
//
// @Summary      HLS master playlist
// @Description  Returns an adaptive playlist covering every quality tier
// @Tags         Videos
// @Produce      application/vnd.apple.mpegurl
// @Param        courseId  path  string true "Course ID"
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /videos/{courseId}/playlist.m3u8 [get]
func (h *VideoHandler) Playlist(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid course id"))
	}

	decision, err := h.access.CanAccess(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	if !decision.Allowed {
		return apperrors.HandleError(c, apperrors.ErrAccessDenied())
	}

	playlist, err := h.streams.ResolvePlaylist(c.Context(), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	if err := c.SendFile(playlist); err != nil {
		return apperrors.HandleError(c, apperrors.ErrNotFound("playlist", err))
	}
	// Set after SendFile: fiber derives a Content-Type from the extension.
	c.Set(fiber.HeaderContentType, "application/vnd.apple.mpegurl")
	return nil
}

// Thumbnail
//
// @Summary      Course thumbnail
// @Description  Returns the JPEG thumbnail with long-lived caching
// @Tags         Videos
// @Produce      image/jpeg
// @Param        courseId  path  string true "Course ID"
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /videos/{courseId}/thumbnail [get]
func (h *VideoHandler) Thumbnail(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrValidation("invalid course id"))
	}

	decision, err := h.access.CanAccess(c.Context(), middleware.UserID(c), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	if !decision.Allowed {
		return apperrors.HandleError(c, apperrors.ErrAccessDenied())
	}

	path, err := h.streams.ResolveThumbnail(c.Context(), courseID)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	if err := c.SendFile(path); err != nil {
		return apperrors.HandleError(c, apperrors.ErrNotFound("thumbnail file", err))
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return nil
}

// serveRange streams a file honoring a single byte-range. The body is
// handed to fasthttp as an io.ReadCloser so the descriptor is released when
// the client disconnects mid-stream.
func (h *VideoHandler) serveRange(c *fiber.Ctx, source *usecases.StreamSource) error {
	f, err := os.Open(source.LocalPath)
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrNotFound("video file", err))
	}

	mimeType := source.MimeType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	c.Set(fiber.HeaderContentType, mimeType)
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	if source.Fallback {
		c.Set("X-Transcode-Fallback", "true")
	}

	rangeHeader := c.Get(fiber.HeaderRange)
	if rangeHeader == "" {
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(source.SizeBytes, 10))
		c.Status(fiber.StatusOK)
		c.Context().SetBodyStream(f, int(source.SizeBytes))
		return nil
	}

	r, err := httprange.Parse(rangeHeader, source.SizeBytes)
	if err != nil {
		f.Close()
		if err == httprange.ErrUnsatisfiable {
			c.Set(fiber.HeaderContentRange, httprange.UnsatisfiableContentRange(source.SizeBytes))
			return apperrors.HandleError(c, apperrors.ErrRangeNotSatisfiable(err))
		}
		return apperrors.HandleError(c, apperrors.ErrValidation("malformed range header"))
	}

	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		f.Close()
		return apperrors.HandleError(c, apperrors.ErrInternal(err))
	}

	c.Set(fiber.HeaderContentRange, r.ContentRange())
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(r.Length(), 10))
	c.Status(fiber.StatusPartialContent)
	c.Context().SetBodyStream(&limitedReadCloser{
		Reader: io.LimitReader(f, r.Length()),
		closer: f,
	}, int(r.Length()))
	return nil
}

// servePreview streams at most the first PreviewByteLimit bytes of the
// original file. Range headers are deliberately ignored in this mode.
func (h *VideoHandler) servePreview(c *fiber.Ctx, source *usecases.StreamSource) error {
	f, err := os.Open(source.LocalPath)
	if err != nil {
		return apperrors.HandleError(c, apperrors.ErrNotFound("video file", err))
	}

	limit := source.SizeBytes
	if limit > PreviewByteLimit {
		limit = PreviewByteLimit
	}

	mimeType := source.MimeType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	c.Set(fiber.HeaderContentType, mimeType)
	c.Set("X-Preview", "true")
	c.Set("X-Preview-Duration", strconv.Itoa(PreviewDurationSeconds))
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(limit, 10))
	c.Status(fiber.StatusOK)
	c.Context().SetBodyStream(&limitedReadCloser{
		Reader: io.LimitReader(f, limit),
		closer: f,
	}, int(limit))
	return nil
}

type limitedReadCloser struct {
	io.Reader
	closer io.Closer
}

func (l *limitedReadCloser) Close() error {
	return l.closer.Close()
}
