package routers

import (
	"github.com/gofiber/fiber/v2"

	"course-media/internal/delivery/http/handlers"
	"course-media/internal/delivery/http/middleware"
)

func SetupRoutes(
	app *fiber.App,
	jwtSecret string,
	courseHandler *handlers.CourseHandler,
	videoHandler *handlers.VideoHandler,
	orderHandler *handlers.OrderHandler,
) {
	app.Use(middleware.Auth(jwtSecret))

	api := app.Group("/api/v1")

	api.Post("/courses", middleware.RequireAuth(), courseHandler.CreateCourse)
	api.Delete("/courses/:id", middleware.RequireAuth(), courseHandler.DeleteCourse)

	api.Post("/orders", middleware.RequireAuth(), orderHandler.CreateOrder)

	// Streaming routes stay reachable without auth so preview mode works;
	// the access gate inside each handler decides what is served.
	api.Get("/videos/:courseId/info", videoHandler.Info)
	api.Get("/videos/:courseId/stream", videoHandler.Stream)
	api.Get("/videos/:courseId/stream-compressed", videoHandler.StreamCompressed)
	api.Get("/videos/:courseId/playlist.m3u8", videoHandler.Playlist)
	api.Get("/videos/:courseId/thumbnail", videoHandler.Thumbnail)
}
