package settings

import (
	"time"
)

type Settings struct {
	ClientName        string
	Network           string
	SecurityLevelHTTP int
	ServerCertFile    string
	ServerKeyFile     string
	TxBuilder         TxBuilderSettings
	Policy            *PolicySettings
	Indexer           IndexerSettings
	Telemetry         TelemetrySettings
}

type TxBuilderSettings struct {
	HTTPListenAddress string
	AuthToken         string
	UTXOMemoTTL       time.Duration

	// IncludeTxJSON controls whether build responses carry the full
	// transaction JSON alongside the serialized hex.
	IncludeTxJSON bool
}

// PolicySettings holds every tunable used by coin selection and the
// priority fee computation. All monetary values are in sompi.
type PolicySettings struct {
	SelectionMode string
	MaxInputs     int

	FeeMode       string
	FixedFee      uint64
	OutputBpsRate uint64

	// adaptive fee tuning table
	BaseFee                      uint64
	PerInputCost                 uint64
	FragmentationThresholdInputs int
	FragmentationBonus           uint64
	TruncationBonus              uint64
	CongestionBonus              uint64
	ReceiptLagHighMs             uint64
	ReceiptLagCriticalMs         uint64
	ReceiptLagBonus              uint64
	SchedulerLatencyHighMs       uint64
	SchedulerLatencyCriticalMs   uint64
	SchedulerLatencyBonus        uint64
	TierPartialBps               uint64
	StaleSoftDiscountBps         uint64

	// transaction construction limits
	DustThreshold uint64
	MaxTxMass     uint64
	MassPerInput  uint64
	MassPerOutput uint64
	MassBase      uint64
}

type IndexerSettings struct {
	BaseURL string
	Timeout time.Duration
}

type TelemetrySettings struct {
	ReceiptsURL     string
	SchedulerURL    string
	TTL             time.Duration
	StaleSoftWindow time.Duration
	StaleHardWindow time.Duration
	Timeout         time.Duration
}
