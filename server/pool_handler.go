package server

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/energeticlee/heist-clone/auth"
	"github.com/energeticlee/heist-clone/errors"
)

// PoolHandler handles reward-pool HTTP requests
//
// Flow: HTTP Request -> routes -> PoolHandler -> StakeService
//
// The requesting identity always comes from the JWT; the body never names
// the caller.
type PoolHandler struct {
	app    *App
	logger zerolog.Logger
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(app *App) *PoolHandler {
	return &PoolHandler{
		app:    app,
		logger: app.logger.With().Str("handler", "pool").Logger(),
	}
}

// FundRequestBody is the fund/init request DTO
type FundRequestBody struct {
	Collection    string `json:"collection" binding:"required"`
	NFTMint       string `json:"nftMint" binding:"required"`
	RewardMint    string `json:"rewardMint" binding:"required"`
	EndDate       uint64 `json:"endDate" binding:"required"`
	RewardPerHour uint64 `json:"rewardPerHour" binding:"required"`
}

// Fund initializes or re-funds the reward pool.
// The first successful call pins the caller as update authority; later calls
// must come from that authority.
func (h *PoolHandler) Fund(c *gin.Context) {
	requester, ok := auth.GetPlayerID(c)
	if !ok {
		Unauthorized(c, errors.New(errors.ErrUnauthorized, "Missing authenticated identity"))
		return
	}

	var body FundRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid fund request"))
		return
	}

	result, err := h.app.stakeService.InitOrFund(c.Request.Context(), &FundRequest{
		Requester:     requester,
		Collection:    body.Collection,
		NFTMint:       body.NFTMint,
		RewardMint:    body.RewardMint,
		EndDate:       body.EndDate,
		RewardPerHour: body.RewardPerHour,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("requester", requester).Msg("Fund failed")
		AppError(c, err)
		return
	}

	OK(c, result)
}

// TransferAuthorityBody is the authority-transfer request DTO
type TransferAuthorityBody struct {
	NewAuthority string `json:"newAuthority" binding:"required"`
}

// TransferAuthority reassigns the pool update authority.
func (h *PoolHandler) TransferAuthority(c *gin.Context) {
	current, ok := auth.GetPlayerID(c)
	if !ok {
		Unauthorized(c, errors.New(errors.ErrUnauthorized, "Missing authenticated identity"))
		return
	}

	var body TransferAuthorityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid transfer request"))
		return
	}

	if err := h.app.stakeService.TransferAuthority(c.Request.Context(), current, body.NewAuthority); err != nil {
		h.logger.Error().Err(err).Str("current", current).Msg("Authority transfer failed")
		AppError(c, err)
		return
	}

	OK(c, gin.H{"updateAuthority": body.NewAuthority})
}

// Get returns the pool state.
func (h *PoolHandler) Get(c *gin.Context) {
	g, err := h.app.stakeService.Pool(c.Request.Context())
	if err != nil {
		AppError(c, err)
		return
	}
	OK(c, g)
}
