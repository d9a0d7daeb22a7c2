package events

import "time"

// Event type names carried in each payload.
const (
	TypePoolFunded  = "pool_funded"
	TypeStakeOpened = "stake_opened"
	TypeStakeClosed = "stake_closed"
)

// Publisher sends lifecycle events to the message bus. kafka.Producer
// satisfies it; a nil publisher disables eventing.
type Publisher interface {
	SendMessage(topic string, key string, value interface{}) error
}

// PoolFunded is published after a successful InitOrFund.
type PoolFunded struct {
	Type           string    `json:"type"`
	Collection     string    `json:"collection"`
	RewardMint     string    `json:"rewardMint"`
	EndDate        uint64    `json:"endDate"`
	RewardPerHour  uint64    `json:"rewardPerHour"`
	RequiredAmount uint64    `json:"requiredAmount"`
	Funder         string    `json:"funder"`
	Timestamp      time.Time `json:"timestamp"`
}

// StakeOpened is published after a successful OpenStake.
type StakeOpened struct {
	Type      string    `json:"type"`
	Player    string    `json:"player"`
	Mint      string    `json:"mint"`
	Tier      string    `json:"tier"`
	StartTime uint64    `json:"startTime"`
	Timestamp time.Time `json:"timestamp"`
}

// StakeClosed is published after a successful CloseStake.
type StakeClosed struct {
	Type         string    `json:"type"`
	Player       string    `json:"player"`
	Mint         string    `json:"mint"`
	Tier         string    `json:"tier"`
	ElapsedHours uint64    `json:"elapsedHours"`
	BaseReward   uint64    `json:"baseReward"`
	Multiplier   uint8     `json:"multiplier"`
	OutcomeClass string    `json:"outcomeClass"`
	Reward       uint64    `json:"reward"`
	Timestamp    time.Time `json:"timestamp"`
}
