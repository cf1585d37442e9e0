package settings

import (
	"fmt"
	"strings"
)

func NewSettings() *Settings {
	return &Settings{
		ClientName:        getString("clientName", "txbuilder"),
		Network:           getString("network", "mainnet"),
		SecurityLevelHTTP: getInt("securityLevelHTTP", 0),
		ServerCertFile:    getString("server_certFile", ""),
		ServerKeyFile:     getString("server_keyFile", ""),
		TxBuilder: TxBuilderSettings{
			HTTPListenAddress: getString("txbuilder_httpListenAddress", ":8086"),
			AuthToken:         getString("txbuilder_authToken", ""),
			UTXOMemoTTL:       getDuration("txbuilder_utxoMemoTTL", "2s"),
			IncludeTxJSON:     getBool("txbuilder_includeTxJSON", true),
		},
		Policy: &PolicySettings{
			SelectionMode: getString("coinselect_mode", "auto"),
			MaxInputs:     getInt("coinselect_maxInputs", 64),

			FeeMode:       getString("fee_mode", "adaptive"),
			FixedFee:      getUint64("fee_fixed", 2_000),
			OutputBpsRate: getUint64("fee_outputBpsRate", 10),

			BaseFee:                      getUint64("fee_base", 1_000),
			PerInputCost:                 getUint64("fee_perInputCost", 500),
			FragmentationThresholdInputs: getInt("fee_fragmentationThresholdInputs", 16),
			FragmentationBonus:           getUint64("fee_fragmentationBonus", 5_000),
			TruncationBonus:              getUint64("fee_truncationBonus", 10_000),
			CongestionBonus:              getUint64("fee_congestionBonus", 20_000),
			ReceiptLagHighMs:             getUint64("fee_receiptLagHighMs", 5_000),
			ReceiptLagCriticalMs:         getUint64("fee_receiptLagCriticalMs", 30_000),
			ReceiptLagBonus:              getUint64("fee_receiptLagBonus", 15_000),
			SchedulerLatencyHighMs:       getUint64("fee_schedulerLatencyHighMs", 2_000),
			SchedulerLatencyCriticalMs:   getUint64("fee_schedulerLatencyCriticalMs", 10_000),
			SchedulerLatencyBonus:        getUint64("fee_schedulerLatencyBonus", 10_000),
			TierPartialBps:               getUint64("fee_tierPartialBps", 5_000),
			StaleSoftDiscountBps:         getUint64("fee_staleSoftDiscountBps", 4_000),

			DustThreshold: getUint64("tx_dustThreshold", 600),
			MaxTxMass:     getUint64("tx_maxMass", 100_000),
			MassPerInput:  getUint64("tx_massPerInput", 1_118),
			MassPerOutput: getUint64("tx_massPerOutput", 500),
			MassBase:      getUint64("tx_massBase", 100),
		},
		Indexer: IndexerSettings{
			BaseURL: getString("indexer_httpAddress", "http://localhost:8090"),
			Timeout: getDuration("indexer_timeout", "5s"),
		},
		Telemetry: TelemetrySettings{
			ReceiptsURL:     getString("telemetry_receiptsURL", ""),
			SchedulerURL:    getString("telemetry_schedulerURL", ""),
			TTL:             getDuration("telemetry_ttl", "15s"),
			StaleSoftWindow: getDuration("telemetry_staleSoftWindow", "30s"),
			StaleHardWindow: getDuration("telemetry_staleHardWindow", "150s"),
			Timeout:         getDuration("telemetry_timeout", "3s"),
		},
	}
}

// Validate checks settings that have no sensible fallback.
func (s *Settings) Validate() error {
	switch s.Policy.SelectionMode {
	case "auto", "largest_first", "smallest_first":
	default:
		return fmt.Errorf("unknown coinselect_mode: %s", s.Policy.SelectionMode)
	}

	switch s.Policy.FeeMode {
	case "fixed", "output_bps", "adaptive":
	default:
		return fmt.Errorf("unknown fee_mode: %s", s.Policy.FeeMode)
	}

	if s.Policy.MaxInputs <= 0 {
		return fmt.Errorf("coinselect_maxInputs must be positive, got %d", s.Policy.MaxInputs)
	}

	if s.Policy.StaleSoftDiscountBps > 10_000 || s.Policy.TierPartialBps > 10_000 {
		return fmt.Errorf("bps fractions must be <= 10000")
	}

	return nil
}

// Describe returns a deterministic dump of the effective configuration.
// Calling it twice against an unchanged environment yields identical output.
func (s *Settings) Describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "clientName=%s network=%s\n", s.ClientName, s.Network)
	fmt.Fprintf(&b, "txbuilder: listen=%s auth=%t utxoMemoTTL=%s includeTxJSON=%t\n",
		s.TxBuilder.HTTPListenAddress, s.TxBuilder.AuthToken != "", s.TxBuilder.UTXOMemoTTL, s.TxBuilder.IncludeTxJSON)
	fmt.Fprintf(&b, "selection: mode=%s maxInputs=%d\n", s.Policy.SelectionMode, s.Policy.MaxInputs)
	fmt.Fprintf(&b, "fee: mode=%s fixed=%d outputBps=%d base=%d perInput=%d fragThreshold=%d fragBonus=%d truncBonus=%d\n",
		s.Policy.FeeMode, s.Policy.FixedFee, s.Policy.OutputBpsRate, s.Policy.BaseFee, s.Policy.PerInputCost,
		s.Policy.FragmentationThresholdInputs, s.Policy.FragmentationBonus, s.Policy.TruncationBonus)
	fmt.Fprintf(&b, "fee.telemetry: congestionBonus=%d receiptLag=%d/%d/%d schedulerLatency=%d/%d/%d tierPartialBps=%d staleSoftDiscountBps=%d\n",
		s.Policy.CongestionBonus,
		s.Policy.ReceiptLagHighMs, s.Policy.ReceiptLagCriticalMs, s.Policy.ReceiptLagBonus,
		s.Policy.SchedulerLatencyHighMs, s.Policy.SchedulerLatencyCriticalMs, s.Policy.SchedulerLatencyBonus,
		s.Policy.TierPartialBps, s.Policy.StaleSoftDiscountBps)
	fmt.Fprintf(&b, "tx: dust=%d maxMass=%d massPerInput=%d massPerOutput=%d massBase=%d\n",
		s.Policy.DustThreshold, s.Policy.MaxTxMass, s.Policy.MassPerInput, s.Policy.MassPerOutput, s.Policy.MassBase)
	fmt.Fprintf(&b, "indexer: url=%s timeout=%s\n", s.Indexer.BaseURL, s.Indexer.Timeout)
	fmt.Fprintf(&b, "telemetry: receipts=%s scheduler=%s ttl=%s staleSoft=%s staleHard=%s timeout=%s\n",
		s.Telemetry.ReceiptsURL, s.Telemetry.SchedulerURL, s.Telemetry.TTL,
		s.Telemetry.StaleSoftWindow, s.Telemetry.StaleHardWindow, s.Telemetry.Timeout)

	return b.String()
}
