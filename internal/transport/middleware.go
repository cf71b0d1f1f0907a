package transport

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/service"
)

var publicPaths = map[string]struct{}{
	"/ping":          {},
	"/metrics":       {},
	"/auth/register": {},
	"/auth/login":    {},
}

var censoredFields = map[string]struct{}{
	"password":         {},
	"current_password": {},
	"new_password":     {},
	"confirm_password": {},
}

func (s *HTTPServer) AuthMiddleware(c *fiber.Ctx) error {
	if _, ok := publicPaths[c.Path()]; ok {
		return c.Next()
	}

	token := c.Get("x-token")
	if token == "" {
		return fiber.ErrUnauthorized
	}
	user, err := s.accounts.UserByToken(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fiber.ErrUnauthorized
		}
		return errors.Wrap(err, "find user by token")
	}

	c.Locals(userKey, user)
	return c.Next()
}

// Observe resolves handler errors into a response itself so that the logged
// and counted status is the one the client gets.
func (s *HTTPServer) Observe(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := s.ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	elapsed := time.Since(start)
	s.metrics.observe(c.Method(), c.Route().Path, status, elapsed)

	fields := []interface{}{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", elapsed,
	}
	if body := c.Body(); len(body) > 0 {
		fields = append(fields, "body", string(censorBody(body)))
	}
	s.logger.Infow("request", fields...)
	return nil
}

// censorBody hides credential fields of a JSON object body. Anything that is
// not a JSON object is returned unchanged.
func censorBody(body []byte) []byte {
	payload := map[string]interface{}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return body
	}

	censored := false
	for key := range payload {
		if _, ok := censoredFields[strings.ToLower(key)]; ok {
			payload[key] = "$censored"
			censored = true
		}
	}
	if !censored {
		return body
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return body
	}
	return out
}
