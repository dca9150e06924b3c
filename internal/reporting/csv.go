package reporting

import (
	"fmt"
	"strings"

	"amm-mev-lab/internal/domain"
)

// RenderTradesCSV renders trade records as CSV string.
func RenderTradesCSV(trades []*domain.TradeRecord) string {
	var sb strings.Builder

	sb.WriteString("trade_id,run_id,tx_index,scenario,trader,amount_in,direction,")
	sb.WriteString("expected_out,actual_out,loss,fee_paid,price_impact_bps,was_attacked,timestamp\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%s,%s,%d,%s,%d,%d,%d,%d,%d,%t,%d\n",
			t.TradeID,
			t.RunID,
			t.TxIndex,
			t.Scenario,
			t.Trader,
			t.AmountIn,
			t.Direction,
			t.ExpectedOut,
			t.ActualOut,
			t.Loss,
			t.FeePaid,
			t.PriceImpactBps,
			t.WasAttacked,
			t.Timestamp,
		))
	}

	return sb.String()
}

// RenderOutcomesCSV renders sandwich outcomes as CSV string.
func RenderOutcomesCSV(outcomes []*domain.SandwichOutcome) string {
	var sb strings.Builder

	sb.WriteString("run_id,tx_index,frontrun_amount,frontrun_received,backrun_amount,")
	sb.WriteString("backrun_received,profit,victim_loss,success,executed,timestamp\n")

	for _, o := range outcomes {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,%d,%d,%d,%d,%t,%t,%d\n",
			o.RunID,
			o.TxIndex,
			o.FrontrunAmount,
			o.FrontrunReceived,
			o.BackrunAmount,
			o.BackrunReceived,
			o.Profit,
			o.VictimLoss,
			o.Success,
			o.Executed,
			o.Timestamp,
		))
	}

	return sb.String()
}

// RenderPoolHistoryCSV renders pool snapshots as CSV string.
func RenderPoolHistoryCSV(snapshots []*domain.PoolSnapshot) string {
	var sb strings.Builder

	sb.WriteString("run_id,tx_index,scenario,reserve_a,reserve_b,price_a_in_b\n")

	for _, s := range snapshots {
		sb.WriteString(fmt.Sprintf("%s,%d,%s,%d,%d,%.9f\n",
			s.RunID,
			s.TxIndex,
			s.Scenario,
			s.ReserveA,
			s.ReserveB,
			s.PriceAInB,
		))
	}

	return sb.String()
}
