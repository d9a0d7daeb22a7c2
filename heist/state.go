package heist

// GlobalState is the program-wide record: one per deployment. It holds the
// reward-pool bookkeeping, the three risk banks and the role catalogue.
// Aggregate counters on it are shared by every lifecycle operation, so all
// writes go through the store's atomic commit.
type GlobalState struct {
	Initialized     bool   `json:"initialized"`
	Collection      string `json:"collection"`
	RewardMint      string `json:"reward_mint"`
	EndDate         uint64 `json:"end_date"`
	Banks           []Bank `json:"banks"`
	Roles           []Role `json:"roles"`
	TotalPlayers    uint64 `json:"total_players"`
	UpdateAuthority string `json:"update_authority"`
}

// Bank is one fixed risk pool. RewardPerHour is shared across tiers and set
// at funding time; Outcomes is generated once and never mutated afterwards.
type Bank struct {
	Tier          Tier      `json:"tier"`
	RewardPerHour uint64    `json:"reward_per_hour"`
	TotalStaked   uint64    `json:"total_staked"`
	Outcomes      []Outcome `json:"outcomes"`
}

// GenerateBanks builds the three banks created at first initialization.
func GenerateBanks(rewardPerHour uint64) []Bank {
	banks := make([]Bank, 0, NumTiers)
	for _, tier := range Tiers() {
		banks = append(banks, Bank{
			Tier:          tier,
			RewardPerHour: rewardPerHour,
			Outcomes:      OutcomesFor(tier),
		})
	}
	return banks
}

// Bank returns the bank slot for a tier. Tier doubles as the slot index.
func (g *GlobalState) Bank(tier Tier) *Bank {
	return &g.Banks[tier]
}

// PlayerInfo is the per-player record. PointBalance only grows, by the
// resolved reward at close time; ActiveStaked tracks currently open stakes.
// The record survives the player's last close (only TotalPlayers moves).
type PlayerInfo struct {
	Initialized  bool   `json:"initialized"`
	PointBalance uint64 `json:"point_balance"`
	ActiveStaked uint16 `json:"active_staked"`
}

// StakeInfo is one open stake, keyed by (owner, mint). It exists for exactly
// one stake episode: created at open, deleted at close.
type StakeInfo struct {
	Owner          string `json:"owner"`
	Mint           string `json:"mint"`
	Tier           Tier   `json:"tier"`
	StakeStartTime uint64 `json:"stake_start_time"`
	Role           Role   `json:"role"`
}

// Host-ledger record layouts. New records must fit these exact byte budgets;
// the storage allocator rejects overflowing writes.
const (
	sizeDiscriminator = 8
	sizePubkey        = 32
	sizeBool          = 1
	sizeU8            = 1
	sizeU16           = 2
	sizeU64           = 8
)

// GlobalLen is the fixed-field byte size of the global record, excluding the
// variable bank and role payloads.
func GlobalLen() int {
	return sizeDiscriminator + sizePubkey + sizeU64 + sizeU64 + sizePubkey + sizeU8 + sizePubkey + sizeU16
}

// PlayerInfoLen is the byte size of a player record.
func PlayerInfoLen() int {
	return sizeDiscriminator + sizeBool + sizeU64 + sizeU16
}

// StakeInfoLen is the byte size of a stake record.
func StakeInfoLen() int {
	return sizeDiscriminator + sizePubkey + sizePubkey + sizePubkey + sizeU64 + sizeU8 + sizeU8
}
