package controller

import (
	"ai-agent-platform/internal/dto"
	"ai-agent-platform/internal/pkg/logger"
	"ai-agent-platform/internal/pkg/serverutils"
	"ai-agent-platform/internal/service"
	internalWS "ai-agent-platform/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Evict(ctx *fiber.Ctx) error
}

type profileController struct {
	profileService service.IProfileService
	hub            *internalWS.Hub
	jwtSecret      string
	logger         logger.ILogger
}

func NewProfileController(
	profileService service.IProfileService,
	hub *internalWS.Hub,
	jwtSecret string,
	log logger.ILogger,
) IProfileController {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &profileController{
		profileService: profileService,
		hub:            hub,
		jwtSecret:      jwtSecret,
		logger:         log,
	}
}

func (c *profileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/profile/v1")
	h.Post("start", c.Start)
	h.Post("submit", c.Submit)
	h.Get("sessions/:id", c.ShowSession)
	h.Get("ws", upgradeOnly, websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeConversation(c.profileService, c.logger, conn)
	}))

	admin := h.Group("/admin")
	if c.hub != nil {
		admin.Get("events/ws", c.feedAuth, upgradeOnly, websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeFeed(c.hub, conn)
		}))
	}
	admin.Use(serverutils.JwtMiddleware(c.jwtSecret, "admin"))
	admin.Get("stats", c.Stats)
	admin.Post("evict", c.Evict)
}

func (c *profileController) Start(ctx *fiber.Ctx) error {
	res, err := c.profileService.Start(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile session started", res))
}

func (c *profileController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.profileService.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}

	message := "Answer recorded"
	if res.NextQuestion == "" {
		message = "Profile complete"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *profileController) ShowSession(ctx *fiber.Ctx) error {
	res, err := c.profileService.GetSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile session", res))
}

func (c *profileController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Profile stats", c.profileService.Stats(ctx.Context())))
}

func (c *profileController) Evict(ctx *fiber.Ctx) error {
	var req dto.EvictSessionsRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.profileService.Evict(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Stale sessions evicted", res))
}

// feedAuth accepts the admin token as a "token" query parameter, since
// browsers cannot set headers on websocket handshakes.
func (c *profileController) feedAuth(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}

	claims, err := serverutils.ParseToken(tokenStr, c.jwtSecret)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied"))
	}
	return ctx.Next()
}

func upgradeOnly(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}
