package telemetry

import (
	"context"
	"encoding/json"

	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/util"
)

type percentiles struct {
	P95 *float64 `json:"p95"`
}

// receiptsSummary is the wire shape of the callback-consumer summary endpoint.
type receiptsSummary struct {
	Receipts struct {
		ConfirmationLatencyMs percentiles `json:"confirmationLatencyMs"`
		ReceiptLagMs          percentiles `json:"receiptLagMs"`
	} `json:"receipts"`
}

// schedulerSummary is the wire shape of the scheduler summary endpoint.
type schedulerSummary struct {
	Scheduler struct {
		SaturationProxyPct *float64 `json:"saturationProxyPct"`
	} `json:"scheduler"`
	Callbacks struct {
		LatencyP95BucketMs *float64 `json:"latencyP95BucketMs"`
	} `json:"callbacks"`
}

func fetchSummary[T any](ctx context.Context, url string) (T, error) {
	var summary T

	body, err := util.DoHTTPRequest(ctx, url)
	if err != nil {
		return summary, errors.NewTelemetryUnavailableError("failed to fetch telemetry summary from %s", url, err)
	}

	if err = json.Unmarshal(body, &summary); err != nil {
		return summary, errors.NewTelemetryUnavailableError("failed to decode telemetry summary from %s", url, err)
	}

	return summary, nil
}
