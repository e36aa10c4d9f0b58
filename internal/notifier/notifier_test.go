package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCADashboard/internal/logger"
	"DCADashboard/internal/model"
)

func sampleEvaluation() *model.Evaluation {
	return &model.Evaluation{
		Threshold: 0.10,
		Ceiling:   50,
		Shift:     1,
		AsOf:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Assets: []model.AssetReport{
			{
				Name: "S&P500", Available: true, LastPrice: 510.2, PercentChange: -1.25,
				Windows: []model.WindowSignal{
					{Window: model.Window{Label: "Weekly", Size: 5}, Evaluated: true, Signal: model.Signal{Weight: 1, Direction: model.Favorable}},
					{Window: model.Window{Label: "Annual", Size: 252}},
				},
				CompositeScore: 1, Allocation: 40, Band: model.BandHigh, Overweight: model.OverweightWeak, RecentLow: true,
				Target: 20,
			},
			{Name: "NIKKEI 225", Band: model.BandLow, Overweight: model.OverweightNone, Allocation: 10},
		},
		Macro: []model.MacroReading{
			{Label: "ECY", Available: true, Value: 4.25, Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)},
			{Label: "CAPE10"},
		},
		Arbitrage: []model.ArbitrageTier{
			{Threshold: 15},
			{Threshold: 5, Alerts: []model.ArbitrageAlert{{A: "NIKKEI 225", B: "S&P500", Delta: 6.5, Threshold: 5}}},
		},
		Rebalance: []model.RebalanceAlert{{Asset: "S&P500", Target: 20, Allocation: 40, Drift: 20, Threshold: 15}},
	}
}

func TestFormatReport(t *testing.T) {
	out := FormatReport(sampleEvaluation())

	assert.Contains(t, out, "2024-06-03")
	assert.Contains(t, out, "Threshold 10.0%")
	assert.Contains(t, out, "S&amp;P500", "names are HTML-escaped")
	assert.NotContains(t, out, "S&P500")
	assert.Contains(t, out, "(-1.25%) 🔻")
	assert.Contains(t, out, "Weekly▼ Annual·")
	assert.Contains(t, out, "<b>NIKKEI 225</b>: data not available")
	assert.Contains(t, out, "Arbitrage &gt; 5%")
	assert.NotContains(t, out, "Arbitrage &gt; 15%", "empty tiers are omitted")
	assert.Contains(t, out, "CAPE10: N/A")
	assert.Contains(t, out, "ECY: 4.25 (2024-05-31)")
}

func TestFormatAllocations(t *testing.T) {
	out := FormatAllocations(sampleEvaluation())
	assert.Contains(t, out, "S&amp;P500: 40.00% [HIGH] target 20.00%")
	assert.Contains(t, out, "NIKKEI 225: 10.00% [LOW]\n")
	assert.Contains(t, out, "shifted by +1.0")
}

func TestFormatAlerts(t *testing.T) {
	out := FormatAlerts(sampleEvaluation())
	assert.Contains(t, out, "NIKKEI 225 / S&amp;P500: Δ 6.50%")
	assert.Contains(t, out, "40.00% vs target 20.00% (+20.00)")

	assert.Equal(t, "✅ No alerts", FormatAlerts(&model.Evaluation{}))
}

func TestFormatMacro(t *testing.T) {
	assert.True(t, strings.HasPrefix(FormatMacro(sampleEvaluation()), "🌐 <b>Macro</b>"))
	assert.Equal(t, "No macro indicators configured", FormatMacro(&model.Evaluation{}))
}

func TestTelegramSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.Nop())
	tn.BaseURL = srv.URL

	require.NoError(t, tn.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestTelegramSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.Nop())
	tn.BaseURL = srv.URL

	require.NoError(t, tn.SendWithRetry(context.Background(), "x", 1))
	assert.Equal(t, int32(2), calls.Load())
}

func TestTelegramSendWithRetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.Nop())
	tn.BaseURL = srv.URL

	err := tn.SendWithRetry(context.Background(), "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestStartPollingDispatchesCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replies := make(chan string, 1)
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if polls.Add(1) == 1 {
				_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /alloc "}}]}`))
				return
			}
			assert.Equal(t, "8", r.URL.Query().Get("offset"))
			cancel()
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			_ = json.NewDecoder(r.Body).Decode(&p)
			replies <- p["text"]
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "", logger.Nop())
	tn.BaseURL = srv.URL

	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string { return "got " + cmd })
		close(done)
	}()

	select {
	case r := <-replies:
		assert.Equal(t, "got /alloc", r)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
}
