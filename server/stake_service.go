package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/energeticlee/heist-clone/errors"
	"github.com/energeticlee/heist-clone/events"
	"github.com/energeticlee/heist-clone/feed"
	"github.com/energeticlee/heist-clone/heist"
	"github.com/energeticlee/heist-clone/history"
	"github.com/energeticlee/heist-clone/provider"
	"github.com/energeticlee/heist-clone/store"
)

// StakeService orchestrates the stake lifecycle against the record store and
// the external collaborators.
//
// Flow: routes -> StakeHandler/PoolHandler -> StakeService -> store/providers
//
// Every operation is atomic against the records it touches: the store commit
// applies all of an operation's mutations or none, and a concurrent mutation
// of any read record fails the commit with a conflict the caller resubmits.
// There is no internal retry; every error is terminal for the operation.
type StakeService struct {
	store    store.Store
	metadata provider.MetadataProvider
	custody  provider.CustodyProvider
	recorder history.Recorder
	producer events.Publisher
	hub      *feed.Hub
	logger   zerolog.Logger

	eventTopic     string
	stakeAuthority string
	poolAccount    string

	now func() time.Time
}

// StakeServiceOptions holds the service dependencies.
type StakeServiceOptions struct {
	Store          store.Store
	Metadata       provider.MetadataProvider
	Custody        provider.CustodyProvider
	Recorder       history.Recorder
	Producer       events.Publisher
	Hub            *feed.Hub
	Logger         zerolog.Logger
	EventTopic     string
	StakeAuthority string
	PoolAccount    string
}

// NewStakeService creates a new stake service
func NewStakeService(opts StakeServiceOptions) *StakeService {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = history.Noop{}
	}
	return &StakeService{
		store:          opts.Store,
		metadata:       opts.Metadata,
		custody:        opts.Custody,
		recorder:       recorder,
		producer:       opts.Producer,
		hub:            opts.Hub,
		logger:         opts.Logger.With().Str("service", "stake").Logger(),
		eventTopic:     opts.EventTopic,
		stakeAuthority: opts.StakeAuthority,
		poolAccount:    opts.PoolAccount,
		now:            time.Now,
	}
}

// FundRequest carries the InitOrFund inputs. Requester is the authenticated
// identity of the caller.
type FundRequest struct {
	Requester     string
	Collection    string
	NFTMint       string
	RewardMint    string
	EndDate       uint64
	RewardPerHour uint64
}

// FundResult reports the funding obligation transferred into the pool.
type FundResult struct {
	Initialized    bool   `json:"initialized"`
	RequiredAmount uint64 `json:"requiredAmount"`
	EndDate        uint64 `json:"endDate"`
}

// verifyMembership checks the presented NFT against the declared collection
// through the metadata registry.
func (s *StakeService) verifyMembership(ctx context.Context, collection, mint string) error {
	md, err := s.metadata.Lookup(ctx, mint)
	if err != nil {
		return errors.Wrap(err, errors.ErrMetadataError, "metadata lookup failed")
	}
	if md.Collection != collection && !md.CollectionVerified {
		return errors.New(errors.ErrCollectionMismatch, "NFT not part of collection")
	}
	if md.Mint != mint {
		return errors.New(errors.ErrMintMismatch, "invalid mint address")
	}
	return nil
}

// InitOrFund initializes the pool on first call and re-funds it afterwards.
//
// Flow:
// 1. Verify the presented NFT belongs to the declared collection
// 2. First call: initialize global state, banks and roles, pin the authority
// 3. Later calls: require the update authority
// 4. Set the funding end date
// 5. Recompute the full remaining obligation from now and transfer it in
//
// Each call re-derives the entire future liability 3*h*(end-now); repeated
// funding transfers the whole remaining obligation again rather than topping
// up. That is the program's funding model, not a bug to correct here.
func (s *StakeService) InitOrFund(ctx context.Context, req *FundRequest) (*FundResult, error) {
	if req.Requester == "" || req.Collection == "" || req.NFTMint == "" || req.RewardMint == "" {
		return nil, errors.New(errors.ErrInvalidRequest, "missing funding parameters")
	}

	if err := s.verifyMembership(ctx, req.Collection, req.NFTMint); err != nil {
		return nil, err
	}

	now := uint64(s.now().Unix())
	if req.EndDate <= now {
		return nil, errors.New(errors.ErrInvalidRequest, "funding end date is in the past")
	}

	result := &FundResult{EndDate: req.EndDate}

	err := s.store.Apply(ctx, "", "", func(v *store.View) error {
		g := v.Global
		if g == nil {
			g = &heist.GlobalState{}
			v.Global = g
		}

		if !g.Initialized {
			g.Initialized = true
			g.TotalPlayers = 0
			g.Collection = req.Collection
			g.UpdateAuthority = req.Requester
			g.Roles = heist.DefaultRoles()
			g.Banks = heist.GenerateBanks(req.RewardPerHour)
			for _, b := range g.Banks {
				if !heist.ValidateOutcomes(b.Outcomes) {
					return errors.New(errors.ErrOutcomeInvariant, "outcome table mass mismatch")
				}
			}
			result.Initialized = true
		} else if g.UpdateAuthority != req.Requester {
			return errors.New(errors.ErrUnauthorized, "invalid update authority")
		}

		g.EndDate = req.EndDate

		// Full remaining obligation from now, across all banks.
		totalRewardPerHour := uint64(len(g.Banks)) * req.RewardPerHour
		timeToEnd := g.EndDate - now
		required := timeToEnd * totalRewardPerHour
		result.RequiredAmount = required

		if err := s.custody.Transfer(ctx, req.RewardMint, req.Requester, s.poolAccount,
			decimal.NewFromUint64(required)); err != nil {
			return errors.Wrap(err, errors.ErrCustodyError, "reward transfer failed")
		}

		g.RewardMint = req.RewardMint
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(req.Requester, events.PoolFunded{
		Type:           events.TypePoolFunded,
		Collection:     req.Collection,
		RewardMint:     req.RewardMint,
		EndDate:        req.EndDate,
		RewardPerHour:  req.RewardPerHour,
		RequiredAmount: result.RequiredAmount,
		Funder:         req.Requester,
		Timestamp:      s.now(),
	})

	s.logger.Info().
		Str("collection", req.Collection).
		Uint64("end_date", req.EndDate).
		Uint64("required_amount", result.RequiredAmount).
		Bool("initialized", result.Initialized).
		Msg("Pool funded")

	return result, nil
}

// TransferAuthority reassigns the update authority. Only the current
// authority may call it.
func (s *StakeService) TransferAuthority(ctx context.Context, current, next string) error {
	if next == "" {
		return errors.New(errors.ErrInvalidRequest, "missing new authority")
	}

	return s.store.Apply(ctx, "", "", func(v *store.View) error {
		if v.Global == nil || !v.Global.Initialized {
			return errors.New(errors.ErrPoolNotInitialized, "pool not initialized")
		}
		if v.Global.UpdateAuthority != current {
			return errors.New(errors.ErrUnauthorized, "invalid update authority")
		}
		v.Global.UpdateAuthority = next
		return nil
	})
}

// OpenStake stakes one NFT into a bank.
//
// Flow:
// 1. Verify the NFT belongs to the configured collection
// 2. Lazily create the player record (first stake ever bumps total_players)
// 3. Delegate custody of the NFT to the stake authority
// 4. Create the stake record and bump the counters
//
// A second open for the same (player, mint) before a close fails with
// DuplicateStake.
func (s *StakeService) OpenStake(ctx context.Context, player, mint string, tier heist.Tier) (*heist.StakeInfo, error) {
	if player == "" || mint == "" {
		return nil, errors.New(errors.ErrInvalidRequest, "missing player or mint")
	}
	if !tier.Valid() {
		return nil, errors.New(errors.ErrInvalidRequest, "unknown bank tier")
	}

	g, err := s.store.Global(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.Initialized {
		return nil, errors.New(errors.ErrPoolNotInitialized, "pool not initialized")
	}

	if err := s.verifyMembership(ctx, g.Collection, mint); err != nil {
		return nil, err
	}

	var created *heist.StakeInfo

	err = s.store.Apply(ctx, player, mint, func(v *store.View) error {
		if v.Global == nil || !v.Global.Initialized {
			return errors.New(errors.ErrPoolNotInitialized, "pool not initialized")
		}
		if v.Stake != nil {
			return errors.New(errors.ErrDuplicateStake, "stake already open for this mint")
		}

		if v.Player == nil || !v.Player.Initialized {
			v.Player = &heist.PlayerInfo{Initialized: true}
			v.Global.TotalPlayers++
		}

		if err := s.custody.Delegate(ctx, player, mint, s.stakeAuthority); err != nil {
			return errors.Wrap(err, errors.ErrCustodyError, "delegate failed")
		}

		v.Player.ActiveStaked++

		v.Stake = &heist.StakeInfo{
			Owner:          player,
			Mint:           mint,
			Tier:           tier,
			StakeStartTime: uint64(s.now().Unix()),
			Role:           heist.Role{Type: heist.RoleChimp},
		}
		created = v.Stake

		v.Global.Bank(tier).TotalStaked++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(player, events.StakeOpened{
		Type:      events.TypeStakeOpened,
		Player:    player,
		Mint:      mint,
		Tier:      tier.String(),
		StartTime: created.StakeStartTime,
		Timestamp: s.now(),
	})

	s.logger.Info().
		Str("player", player).
		Str("mint", mint).
		Str("tier", tier.String()).
		Msg("Stake opened")

	return created, nil
}

// CloseResult reports one resolved stake episode.
type CloseResult struct {
	Mint         string `json:"mint"`
	Tier         string `json:"tier"`
	ElapsedHours uint64 `json:"elapsedHours"`
	BaseReward   uint64 `json:"baseReward"`
	Draw         uint64 `json:"draw"`
	Multiplier   uint8  `json:"multiplier"`
	IsNegative   bool   `json:"isNegative"`
	OutcomeClass string `json:"outcomeClass"`
	Reward       uint64 `json:"reward"`
	PointBalance uint64 `json:"pointBalance"`
}

// CloseStake unstakes one NFT and resolves its reward.
//
// Flow:
// 1. Verify the NFT belongs to the configured collection
// 2. Require an open stake owned by the caller
// 3. Revoke the custody delegation
// 4. Accrue base reward by whole elapsed hours
// 5. Draw and resolve the bank's outcome table (first entry whose raw
//    weight exceeds the draw; no cumulative sum)
// 6. Credit the point balance, transfer the reward, destroy the stake
//
// Closing a player's last stake decrements total_players; the player record
// itself is kept.
func (s *StakeService) CloseStake(ctx context.Context, player, mint string) (*CloseResult, error) {
	if player == "" || mint == "" {
		return nil, errors.New(errors.ErrInvalidRequest, "missing player or mint")
	}

	g, err := s.store.Global(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.Initialized {
		return nil, errors.New(errors.ErrPoolNotInitialized, "pool not initialized")
	}

	if err := s.verifyMembership(ctx, g.Collection, mint); err != nil {
		return nil, err
	}

	closeTime := s.now()
	result := &CloseResult{Mint: mint}
	var stakeStart uint64

	err = s.store.Apply(ctx, player, mint, func(v *store.View) error {
		if v.Global == nil || !v.Global.Initialized {
			return errors.New(errors.ErrPoolNotInitialized, "pool not initialized")
		}
		if v.Stake == nil || v.Stake.Owner != player || v.Player == nil || v.Player.ActiveStaked < 1 {
			return errors.New(errors.ErrStakeNotFound, "no open stake for this mint")
		}

		if err := s.custody.Revoke(ctx, player, mint); err != nil {
			return errors.Wrap(err, errors.ErrCustodyError, "revoke failed")
		}

		bank := v.Global.Bank(v.Stake.Tier)
		stakeStart = v.Stake.StakeStartTime

		elapsed := (uint64(closeTime.Unix()) - v.Stake.StakeStartTime) / 3600
		base := elapsed * bank.RewardPerHour

		draw := heist.Draw(closeTime, player)
		outcome, ok := heist.SelectOutcome(bank.Outcomes, draw)
		if !ok {
			return errors.NewWithDebug(errors.ErrOutcomeInvariant,
				"no outcome matched draw", "draw exceeded every entry weight")
		}

		reward := base * uint64(outcome.Multiplier)

		result.Tier = v.Stake.Tier.String()
		result.ElapsedHours = elapsed
		result.BaseReward = base
		result.Draw = draw
		result.Multiplier = outcome.Multiplier
		result.IsNegative = outcome.IsNegative
		result.OutcomeClass = outcome.Class.String()
		result.Reward = reward

		v.Player.PointBalance += reward
		v.Player.ActiveStaked--
		result.PointBalance = v.Player.PointBalance

		if err := s.custody.Transfer(ctx, v.Global.RewardMint, s.poolAccount, player,
			decimal.NewFromUint64(reward)); err != nil {
			return errors.Wrap(err, errors.ErrCustodyError, "reward transfer failed")
		}

		v.Stake = nil

		if v.Player.ActiveStaked == 0 {
			v.Global.TotalPlayers--
		}
		bank.TotalStaked--
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.recorder.Record(ctx, &history.Episode{
		Player:       player,
		Mint:         mint,
		Tier:         result.Tier,
		StakeStart:   time.Unix(int64(stakeStart), 0),
		StakeEnd:     closeTime,
		ElapsedHours: result.ElapsedHours,
		BaseReward:   result.BaseReward,
		Draw:         result.Draw,
		Multiplier:   result.Multiplier,
		OutcomeClass: result.OutcomeClass,
		Reward:       result.Reward,
	}); err != nil {
		s.logger.Error().Err(err).Str("player", player).Str("mint", mint).
			Msg("Failed to record episode")
	}

	if s.hub != nil {
		s.hub.Send(feed.OutcomeUpdate{
			Player:       player,
			Mint:         mint,
			Tier:         result.Tier,
			OutcomeClass: result.OutcomeClass,
			Multiplier:   result.Multiplier,
			Reward:       result.Reward,
			ClosedAt:     closeTime,
		})
	}

	s.publish(player, events.StakeClosed{
		Type:         events.TypeStakeClosed,
		Player:       player,
		Mint:         mint,
		Tier:         result.Tier,
		ElapsedHours: result.ElapsedHours,
		BaseReward:   result.BaseReward,
		Multiplier:   result.Multiplier,
		OutcomeClass: result.OutcomeClass,
		Reward:       result.Reward,
		Timestamp:    closeTime,
	})

	s.logger.Info().
		Str("player", player).
		Str("mint", mint).
		Str("tier", result.Tier).
		Uint64("reward", result.Reward).
		Str("outcome", result.OutcomeClass).
		Msg("Stake closed")

	return result, nil
}

// Pool returns the global pool record.
func (s *StakeService) Pool(ctx context.Context) (*heist.GlobalState, error) {
	g, err := s.store.Global(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.New(errors.ErrPoolNotInitialized, "pool not initialized")
	}
	return g, nil
}

// Player returns one player record.
func (s *StakeService) Player(ctx context.Context, id string) (*heist.PlayerInfo, error) {
	p, err := s.store.Player(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New(errors.ErrNotFound, "unknown player")
	}
	return p, nil
}

// PlayerStakes lists a player's open stakes.
func (s *StakeService) PlayerStakes(ctx context.Context, id string) ([]*heist.StakeInfo, error) {
	return s.store.PlayerStakes(ctx, id)
}

func (s *StakeService) publish(key string, event interface{}) {
	if s.producer == nil || s.eventTopic == "" {
		return
	}
	if err := s.producer.SendMessage(s.eventTopic, key, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish event")
	}
}
