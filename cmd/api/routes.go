package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	movieDelivery "github.com/martinmanurung/cinevault/internal/domain/movies/delivery"
	peopleDelivery "github.com/martinmanurung/cinevault/internal/domain/people/delivery"
	reviewDelivery "github.com/martinmanurung/cinevault/internal/domain/reviews/delivery"
	userDelivery "github.com/martinmanurung/cinevault/internal/domain/users/delivery"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/response"
)

func setupRoutes(e *echo.Echo, userHandler *userDelivery.Handler, peopleHandler *peopleDelivery.Handler, movieHandler *movieDelivery.Handler, reviewHandler *reviewDelivery.Handler, jwtService *jwt.JWTService) {
	// Middleware
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Custom error handler
	e.HTTPErrorHandler = response.CustomErrorHandler

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status": "ok",
		})
	})

	authed := jwtService.JWTMiddleware()

	// Auth routes
	auth := e.Group("/auth")
	{
		auth.POST("/signup", userHandler.Signup)
		auth.POST("/signin", userHandler.Signin)
		auth.POST("/verify-email", userHandler.VerifyEmail)
		auth.POST("/resend-verify-email", userHandler.ResendVerifyEmail)
		auth.POST("/forgot-password", userHandler.ForgotPassword)
		auth.POST("/is-valid-token", userHandler.CheckResetToken)
		auth.POST("/reset-password", userHandler.ResetPassword)
		auth.POST("/refresh", userHandler.RefreshToken)
		auth.POST("/logout", userHandler.Logout)
	}

	// User routes
	user := e.Group("/user")
	{
		user.GET("/me", userHandler.GetMe, authed)
	}

	// Actor routes
	actors := e.Group("/actors")
	{
		actors.POST("", peopleHandler.CreateActor, authed)
		actors.PATCH("/:id", peopleHandler.UpdateActor, authed)
		actors.DELETE("/:id", peopleHandler.DeleteActor, authed)
		actors.GET("", peopleHandler.GetActors)
		actors.GET("/latest", peopleHandler.GetLatestActors)
		actors.GET("/search", peopleHandler.SearchActors)
		actors.GET("/:id", peopleHandler.GetActor)
	}

	// Director routes
	directors := e.Group("/directors")
	{
		directors.POST("", peopleHandler.CreateDirector, authed)
		directors.PATCH("/:id", peopleHandler.UpdateDirector, authed)
		directors.DELETE("/:id", peopleHandler.DeleteDirector, authed)
		directors.GET("", peopleHandler.GetDirectors)
		directors.GET("/search", peopleHandler.SearchDirectors)
		directors.GET("/:id", peopleHandler.GetDirector)
	}

	// Writer routes
	writers := e.Group("/writers")
	{
		writers.POST("", peopleHandler.CreateWriter, authed)
		writers.PATCH("/:id", peopleHandler.UpdateWriter, authed)
		writers.DELETE("/:id", peopleHandler.DeleteWriter, authed)
		writers.GET("", peopleHandler.GetWriters)
		writers.GET("/search", peopleHandler.SearchWriters)
		writers.GET("/:id", peopleHandler.GetWriter)
	}

	// Movie routes
	movies := e.Group("/movies")
	{
		movies.POST("/upload-trailer", movieHandler.UploadTrailer, authed)
		movies.POST("", movieHandler.CreateMovie, authed)
		movies.PATCH("/:id", movieHandler.UpdateMovie, authed)
		movies.PATCH("/:id/poster", movieHandler.UpdateMoviePoster, authed)
		movies.DELETE("/:id", movieHandler.DeleteMovie, authed)
		movies.GET("", movieHandler.GetMovies, authed)
		movies.GET("/latest", movieHandler.GetLatestMovies)
		movies.GET("/search", movieHandler.SearchMovies, authed)
		movies.GET("/search-public", movieHandler.SearchPublicMovies)
		movies.GET("/top-rated", movieHandler.GetTopRatedMovies)
		movies.GET("/app-info", movieHandler.GetAppInfo, authed)
		movies.GET("/:id", movieHandler.GetMovie)
		movies.GET("/:id/related", movieHandler.GetRelatedMovies)
		movies.GET("/:id/reviews", reviewHandler.GetMovieReviews)
	}

	// Review routes
	reviews := e.Group("/reviews")
	{
		reviews.POST("", reviewHandler.AddReview, authed)
		reviews.PATCH("/:id", reviewHandler.UpdateReview, authed)
		reviews.DELETE("/:id", reviewHandler.DeleteReview, authed)
	}
}
