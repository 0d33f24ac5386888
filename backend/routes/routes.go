package routes

import (
	"glowup/backend/controllers"
	"glowup/backend/middleware"

	_ "glowup/backend/docs"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

func SetupRoutes(app *fiber.App, env *controllers.Env) {
	api := app.Group("/api")
	api.Get("/health", env.Health)
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Auth routes
	authController := controllers.NewAuthController(env)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(env.Cfg)

	// Profile routes
	profileController := controllers.NewProfileController(env)
	api.Get("/profile", authMiddleware, profileController.GetProfile)
	api.Put("/profile", authMiddleware, profileController.UpdateProfile)
	api.Put("/account", authMiddleware, profileController.UpdateAccount)

	// Challenge routes
	challengeController := controllers.NewChallengeController(env)
	challenge := api.Group("/challenge", authMiddleware)
	challenge.Get("/", challengeController.GetChallenge)
	challenge.Put("/", challengeController.SyncChallenge)
	challenge.Delete("/", challengeController.ResetChallenge)
	challenge.Post("/start", challengeController.StartChallenge)
	challenge.Get("/days", challengeController.ListDays)
	challenge.Get("/days/:id", challengeController.GetDay)
	challenge.Post("/days/:id/complete", challengeController.CompleteDay)
	challenge.Put("/days/:id/note", challengeController.SetDayNote)

	// Journal routes
	journalController := controllers.NewJournalController(env)
	journal := api.Group("/journal", authMiddleware)
	journal.Get("/", journalController.ListEntries)
	journal.Post("/", journalController.CreateEntry)
	journal.Delete("/:id", journalController.DeleteEntry)

	// Tracker routes
	trackerController := controllers.NewTrackerController(env)
	trackers := api.Group("/trackers", authMiddleware)
	trackers.Get("/", trackerController.GetTracker)
	trackers.Post("/", trackerController.SaveTracker)
	trackers.Get("/analytics", trackerController.GetAnalytics)

	// Routine routes
	routineController := controllers.NewRoutineController(env)
	routine := api.Group("/routine", authMiddleware)
	routine.Get("/", routineController.ListRoutine)
	routine.Post("/", routineController.CreateRoutineItem)
	routine.Put("/:id", routineController.UpdateRoutineItem)
	routine.Delete("/:id", routineController.DeleteRoutineItem)

	// Vision board routes
	visionController := controllers.NewVisionController(env)
	vision := api.Group("/vision", authMiddleware)
	vision.Get("/", visionController.ListImages)
	vision.Post("/", visionController.AddImage)
	vision.Delete("/:id", visionController.DeleteImage)

	// Overview routes
	overviewController := controllers.NewOverviewController(env)
	api.Get("/affirmations/today", authMiddleware, overviewController.GetTodayAffirmation)
	api.Get("/overview", authMiddleware, overviewController.GetOverview)

	exportController := controllers.NewExportController(env)
	api.Get("/export", authMiddleware, exportController.Export)
}
