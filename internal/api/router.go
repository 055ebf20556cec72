package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/learncraft/learncraft-api/docs"
	"github.com/learncraft/learncraft-api/internal/api/handler"
	"github.com/learncraft/learncraft-api/internal/api/middleware"
	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
	"github.com/learncraft/learncraft-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services the router exposes. Checkout is normally the
// sharded dispatcher wrapping the reconciler.
type Dependencies struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Catalog     ports.CatalogService
	Teachers    ports.TeacherService
	Assignments ports.AssignmentService
	Carts       ports.CartService
	Enrollments ports.EnrollmentService
	Payments    ports.PaymentService
	Checkout    ports.CheckoutService
	Feedback    ports.FeedbackService

	// HealthChecks are pinged by the readiness probe.
	HealthChecks map[string]handlers.Pinger
	CORSOrigins  []string
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddleware("learncraft"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	classHandler := handler.NewClassHandler(deps.Catalog)
	teacherHandler := handler.NewTeacherHandler(deps.Teachers)
	assignmentHandler := handler.NewAssignmentHandler(deps.Assignments)
	cartHandler := handler.NewCartHandler(deps.Carts)
	paymentHandler := handler.NewPaymentHandler(deps.Payments, deps.Checkout, deps.Enrollments)
	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)

	authn := middleware.Auth(deps.Auth)
	admin := middleware.RequireAdmin(deps.Auth)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Learn Craft server has started")
	})

	v1 := e.Group("/api/v1")

	// --- Identity ---
	v1.POST("/jwt", authHandler.IssueToken)
	v1.POST("/create-user", userHandler.Create)
	v1.GET("/users", userHandler.List, authn, admin)
	v1.GET("/user/:email", userHandler.Get)
	v1.PATCH("/admin/:id", userHandler.Promote, authn, admin)
	v1.GET("/users/admin/:email", userHandler.IsAdmin, authn)

	// --- Catalog ---
	v1.POST("/add-class", classHandler.Create, authn)
	v1.GET("/classes", classHandler.List)
	v1.GET("/teacher-classes", classHandler.List)
	v1.GET("/class/:id", classHandler.Get)
	v1.GET("/approved-classes", classHandler.Approved)
	v1.GET("/courses/search", classHandler.Search)
	v1.GET("/recommended-classes", classHandler.Recommended)
	v1.GET("/popular-classes", classHandler.Popular)
	v1.PATCH("/class/:id", classHandler.Update, authn)
	v1.DELETE("/delete-class/:id", classHandler.Delete, authn)
	v1.PATCH("/approve/:id", classHandler.Moderate(domain.DecisionApprove), authn, admin)
	v1.PATCH("/reject/:id", classHandler.Moderate(domain.DecisionReject), authn, admin)

	// --- Assignments ---
	v1.POST("/add-assignment", assignmentHandler.Post, authn)
	v1.POST("/post-assignment", assignmentHandler.Submit, authn)
	v1.GET("/assignments", assignmentHandler.List)
	v1.GET("/submission", assignmentHandler.FindSubmission, authn)
	v1.GET("/assignments-count", assignmentHandler.Count)

	// --- Teachers ---
	v1.POST("/add-teacher", teacherHandler.Apply, authn)
	v1.GET("/teachers", teacherHandler.List, authn, admin)
	v1.GET("/teacher/:email", teacherHandler.Get)
	v1.PATCH("/teacher-approve/:id", teacherHandler.Moderate(domain.DecisionApprove), authn, admin)
	v1.PATCH("/teacher-reject/:id", teacherHandler.Moderate(domain.DecisionReject), authn, admin)

	// --- Cart, payments, enrollments ---
	v1.POST("/add-cart", cartHandler.Add, authn)
	v1.GET("/carts", cartHandler.List, authn)
	v1.DELETE("/cart/:id", cartHandler.Remove, authn)
	v1.GET("/enrollments", paymentHandler.ListEnrollments, authn)
	v1.POST("/create-payment-intent", paymentHandler.CreateIntent, authn)
	v1.POST("/add-payment", paymentHandler.Checkout, authn)
	v1.GET("/payments", paymentHandler.ListPayments, authn)

	// --- Feedback ---
	v1.POST("/add-feedback", feedbackHandler.Add, authn)
	v1.GET("/feedbacks", feedbackHandler.List)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
