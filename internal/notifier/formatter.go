package notifier

import (
	"fmt"
	"html"
	"strings"

	"DCADashboard/internal/model"
	"DCADashboard/internal/strategy"
)

// FormatReport formats the full dashboard into a Telegram message.
func FormatReport(eval *model.Evaluation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>DCA Dashboard</b> | %s\n", eval.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Threshold %.1f%% | Ceiling %.0f%%\n\n",
		strategy.ThresholdToPercent(eval.Threshold), eval.Ceiling))

	for _, a := range eval.Assets {
		name := html.EscapeString(a.Name)
		if !a.Available {
			b.WriteString(fmt.Sprintf("▫️ <b>%s</b>: data not available\n", name))
			continue
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %.2f (%+.2f%%)", overweightMark(a.Overweight), name, a.LastPrice, a.PercentChange))
		if a.RecentLow {
			b.WriteString(" 🔻")
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("   score %+.1f | alloc %.2f%% | %s\n", a.CompositeScore, a.Allocation, windowSummary(a.Windows)))
	}

	if alerts := formatAlertBody(eval); alerts != "" {
		b.WriteString("\n")
		b.WriteString(alerts)
	}
	if macro := formatMacroBody(eval.Macro); macro != "" {
		b.WriteString("\n🌐 <b>Macro</b>\n")
		b.WriteString(macro)
	}
	return b.String()
}

// FormatAllocations lists the allocation split in asset order.
func FormatAllocations(eval *model.Evaluation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💰 <b>Allocation</b> (ceiling %.0f%%)\n\n", eval.Ceiling))
	for _, a := range eval.Assets {
		line := fmt.Sprintf("%s: %.2f%% [%s]", html.EscapeString(a.Name), a.Allocation, a.Band)
		if a.Target > 0 {
			line += fmt.Sprintf(" target %.2f%%", a.Target)
		}
		b.WriteString(line + "\n")
	}
	if eval.Shift > 0 {
		b.WriteString(fmt.Sprintf("\nscores shifted by %+.1f\n", eval.Shift))
	}
	return b.String()
}

// FormatAlerts lists arbitrage and rebalance alerts.
func FormatAlerts(eval *model.Evaluation) string {
	body := formatAlertBody(eval)
	if body == "" {
		return "✅ No alerts"
	}
	return body
}

// FormatMacro lists the latest macro readings.
func FormatMacro(eval *model.Evaluation) string {
	body := formatMacroBody(eval.Macro)
	if body == "" {
		return "No macro indicators configured"
	}
	return "🌐 <b>Macro</b>\n\n" + body
}

// FormatNewAlerts announces alerts raised since the previous refresh.
func FormatNewAlerts(arb []model.ArbitrageAlert, reb []model.RebalanceAlert) string {
	var b strings.Builder
	b.WriteString("🚨 <b>New alerts</b>\n\n")
	for _, a := range arb {
		b.WriteString(arbitrageLine(a) + "\n")
	}
	for _, r := range reb {
		b.WriteString(rebalanceLine(r) + "\n")
	}
	return b.String()
}

func formatAlertBody(eval *model.Evaluation) string {
	var b strings.Builder
	for _, tier := range eval.Arbitrage {
		if len(tier.Alerts) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("⚠️ <b>Arbitrage &gt; %.0f%%</b>\n", tier.Threshold))
		for _, a := range tier.Alerts {
			b.WriteString("  " + arbitrageLine(a) + "\n")
		}
	}
	if len(eval.Rebalance) > 0 {
		b.WriteString("⚖️ <b>Rebalance</b>\n")
		for _, r := range eval.Rebalance {
			b.WriteString("  " + rebalanceLine(r) + "\n")
		}
	}
	return b.String()
}

func formatMacroBody(readings []model.MacroReading) string {
	var b strings.Builder
	for _, m := range readings {
		if !m.Available {
			b.WriteString(fmt.Sprintf("%s: N/A\n", html.EscapeString(m.Label)))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %.2f (%s)\n", html.EscapeString(m.Label), m.Value, m.Date.Format("2006-01-02")))
	}
	return b.String()
}

func arbitrageLine(a model.ArbitrageAlert) string {
	return fmt.Sprintf("%s / %s: Δ %.2f%%", html.EscapeString(a.A), html.EscapeString(a.B), a.Delta)
}

func rebalanceLine(r model.RebalanceAlert) string {
	return fmt.Sprintf("%s: %.2f%% vs target %.2f%% (%+.2f)", html.EscapeString(r.Asset), r.Allocation, r.Target, r.Drift)
}

func windowSummary(windows []model.WindowSignal) string {
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		parts = append(parts, html.EscapeString(w.Window.Label)+w.Mark())
	}
	return strings.Join(parts, " ")
}

func overweightMark(level model.OverweightLevel) string {
	switch level {
	case model.OverweightStrong:
		return "🟢"
	case model.OverweightModerate:
		return "🟡"
	case model.OverweightWeak:
		return "🟠"
	default:
		return "⚪"
	}
}
