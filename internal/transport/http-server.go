package transport

import (
	"context"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/service"
)

const userKey = "user"

var errForbidden = errors.New("forbidden")

var validate = validator.New()

type (
	Deps struct {
		fx.In

		Accounts  *service.Accounts
		Fridge    *service.Fridge
		Recipes   *service.Recipes
		Discovery *service.Discovery
		Social    *service.Social
		Logger    *zap.SugaredLogger
	}

	HTTPServer struct {
		app     *fiber.App
		metrics *metrics
		logger  *zap.SugaredLogger

		accounts  *service.Accounts
		fridge    *service.Fridge
		recipes   *service.Recipes
		discovery *service.Discovery
		social    *service.Social
	}
)

var Module = fx.Options(
	fx.Provide(NewHTTPServer),
	fx.Invoke(func(*HTTPServer) {}),
)

// New builds the app with every route mounted but does not listen.
func New(d Deps) *HTTPServer {
	s := &HTTPServer{
		metrics:   newMetrics(),
		logger:    d.Logger,
		accounts:  d.Accounts,
		fridge:    d.Fridge,
		recipes:   d.Recipes,
		discovery: d.Discovery,
		social:    d.Social,
	}

	app := fiber.New(fiber.Config{
		AppName:               "recipebox",
		DisableStartupMessage: true,
		ErrorHandler:          s.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(s.Observe)
	app.Use(s.AuthMiddleware)

	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", s.metrics.handler())

	auth := app.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/logout", s.Logout)

	me := app.Group("/me")
	me.Get("", s.MeGet)
	me.Patch("", s.MeUpdate)
	me.Put("/password", s.MePassword)
	me.Delete("", s.MeDelete)

	fridge := app.Group("/fridge")
	fridge.Get("", s.FridgeList)
	fridge.Post("", s.FridgeAdd)
	fridge.Delete("/:id", s.FridgeDelete)

	app.Get("/lookups/:table", s.LookupList)

	recipes := app.Group("/recipes")
	recipes.Get("", s.RecipeSearch)
	recipes.Get("/fridge", s.RecipeByFridge)
	recipes.Get("/top", s.RecipeTop)
	recipes.Get("/:id", s.RecipeGet)
	recipes.Post("", s.RecipeCreate)
	recipes.Put("/:id", s.RecipeUpdate)
	recipes.Delete("/:id", s.RecipeDelete)
	recipes.Get("/:id/favorite", s.FavoriteGet)
	recipes.Post("/:id/favorite", s.FavoriteToggle)
	recipes.Post("/:id/comments", s.CommentCreate)

	app.Get("/favorites", s.FavoriteList)
	app.Delete("/comments/:id", s.CommentDelete)

	s.app = app
	return s
}

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, d Deps) *HTTPServer {
	s := New(d)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := s.app.Listen(listen); err != nil {
					s.logger.Errorw("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.logger.Info("Stopping HTTP server.")
			return s.app.ShutdownWithContext(ctx)
		},
	})

	return s
}

// ErrorHandler turns service error kinds into status codes. Messages of
// internal failures are not exposed.
func (s *HTTPServer) ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrPasswordMismatch):
		code, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, errForbidden):
		code, msg = fiber.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		code, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		code, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, service.ErrTimeout):
		code, msg = fiber.StatusGatewayTimeout, "request timed out"
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(models.ErrorResp{Error: msg})
}

////////

func BindAndValidate(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func QueryAndValidate(c *fiber.Ctx, v interface{}) error {
	if err := c.QueryParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func GetUserFromContext(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, fiber.ErrUnauthorized
	}
	return user, nil
}

func GetParam(c *fiber.Ctx, name string) (string, error) {
	value := c.Params(name)
	if value == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func GetAndParseParam(c *fiber.Ctx, name string) (uint64, error) {
	v, err := GetParam(c, name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return id, nil
}
