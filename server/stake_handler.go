package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/energeticlee/heist-clone/auth"
	"github.com/energeticlee/heist-clone/errors"
	"github.com/energeticlee/heist-clone/heist"
)

// StakeHandler handles stake lifecycle HTTP requests
//
// Flow: HTTP Request -> routes -> StakeHandler -> StakeService
type StakeHandler struct {
	app      *App
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewStakeHandler creates a new stake handler
func NewStakeHandler(app *App) *StakeHandler {
	return &StakeHandler{
		app:    app,
		logger: app.logger.With().Str("handler", "stake").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// OpenRequestBody is the stake-open request DTO
type OpenRequestBody struct {
	Mint string `json:"mint" binding:"required"`
	Tier string `json:"tier" binding:"required"`
}

// Open stakes an NFT into a bank.
func (h *StakeHandler) Open(c *gin.Context) {
	player, ok := auth.GetPlayerID(c)
	if !ok {
		Unauthorized(c, errors.New(errors.ErrUnauthorized, "Missing authenticated identity"))
		return
	}

	var body OpenRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid stake request"))
		return
	}

	tier, err := heist.ParseTier(body.Tier)
	if err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Unknown bank tier"))
		return
	}

	stake, err := h.app.stakeService.OpenStake(c.Request.Context(), player, body.Mint, tier)
	if err != nil {
		h.logger.Error().Err(err).Str("player", player).Str("mint", body.Mint).Msg("Open stake failed")
		AppError(c, err)
		return
	}

	Created(c, stake)
}

// CloseRequestBody is the stake-close request DTO
type CloseRequestBody struct {
	Mint string `json:"mint" binding:"required"`
}

// Close unstakes an NFT and resolves its reward.
func (h *StakeHandler) Close(c *gin.Context) {
	player, ok := auth.GetPlayerID(c)
	if !ok {
		Unauthorized(c, errors.New(errors.ErrUnauthorized, "Missing authenticated identity"))
		return
	}

	var body CloseRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid unstake request"))
		return
	}

	result, err := h.app.stakeService.CloseStake(c.Request.Context(), player, body.Mint)
	if err != nil {
		h.logger.Error().Err(err).Str("player", player).Str("mint", body.Mint).Msg("Close stake failed")
		AppError(c, err)
		return
	}

	OK(c, result)
}

// GetPlayer returns one player record.
func (h *StakeHandler) GetPlayer(c *gin.Context) {
	id := c.Param("id")
	p, err := h.app.stakeService.Player(c.Request.Context(), id)
	if err != nil {
		AppError(c, err)
		return
	}
	OK(c, p)
}

// GetPlayerStakes lists a player's open stakes.
func (h *StakeHandler) GetPlayerStakes(c *gin.Context) {
	id := c.Param("id")
	stakes, err := h.app.stakeService.PlayerStakes(c.Request.Context(), id)
	if err != nil {
		AppError(c, err)
		return
	}
	OK(c, stakes)
}

// OutcomeFeed upgrades to a websocket and streams close outcomes.
func (h *StakeHandler) OutcomeFeed(c *gin.Context) {
	if h.app.hub == nil {
		Error(c, http.StatusServiceUnavailable, errors.New(errors.ErrServiceUnavailable, "Feed disabled"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.app.hub.Listen(c.Request.Context())
	defer cancel()

	for update := range updates {
		if err := conn.WriteJSON(update); err != nil {
			h.logger.Debug().Err(err).Msg("Feed subscriber gone")
			return
		}
	}
}
