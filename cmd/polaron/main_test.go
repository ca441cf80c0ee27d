package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
)

func TestEstimate(t *testing.T) {
	est := quote.Estimator{Rand: sim.FixedRand(1000)}

	t.Run("known route", func(t *testing.T) {
		q, err := estimate(est, quote.Request{Origin: "New York", Destination: "Los Angeles", ShippingMethod: "open", Timeframe: "standard"})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, writeEstimate(&buf, q, false))
		out := buf.String()
		assert.Contains(t, out, "New York → Los Angeles")
		assert.Contains(t, out, "2,800 miles\n")
		assert.Contains(t, out, q.Range)
	})

	t.Run("unknown route", func(t *testing.T) {
		q, err := estimate(est, quote.Request{Origin: "Boston", Destination: "Denver"})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, writeEstimate(&buf, q, false))
		assert.Contains(t, buf.String(), "1,500 miles (estimated)")
	})

	t.Run("json", func(t *testing.T) {
		q, err := estimate(est, quote.Request{Origin: "Miami", Destination: "Chicago"})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, writeEstimate(&buf, q, true))
		var decoded quote.PriceQuote
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, q.Range, decoded.Range)
	})

	t.Run("short city rejected", func(t *testing.T) {
		_, err := estimate(est, quote.Request{Origin: "NY", Destination: "Los Angeles"})
		assert.Error(t, err)
	})
}

func TestWriteDeposit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDeposit(&buf, booking.AddOns{}))
	assert.Equal(t, "Deposit $375 (×1.0, no add-ons)\n", buf.String())

	buf.Reset()
	require.NoError(t, writeDeposit(&buf, booking.AddOns{Enclosed: true, Expedited: true}))
	assert.Contains(t, buf.String(), "Deposit $675 (×1.8, ")
	assert.Contains(t, buf.String(), "Enclosed Transport")
}

func TestWriteActivity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeActivity(&buf, &events.Activity{}))
	assert.Equal(t, "No activity\n", buf.String())

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	buf.Reset()
	require.NoError(t, writeActivity(&buf, &events.Activity{
		Total:  3,
		Counts: map[string]int{"quote.calculated": 2, "booking.confirmed": 1},
		Recent: []events.Event{{ID: "e1", Timestamp: at, Flow: "quote", Action: "calculated"}},
	}))
	out := buf.String()
	assert.Contains(t, out, "3 event(s):")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("booking.confirmed")), bytes.Index(buf.Bytes(), []byte("quote.calculated")))
	assert.Contains(t, out, "[09:30:00] quote.calculated e1")
}

func TestRuntimeWithoutBus(t *testing.T) {
	rt := &runtime{}
	assert.Equal(t, events.Discard, rt.publisher())
	assert.Nil(t, rt.activity())
	rt.Close()
}

func TestHighlightJSON(t *testing.T) {
	src := `{"total": 2380}`
	assert.Equal(t, src, highlightJSON(src, colorprofile.Ascii))
	assert.Equal(t, src, highlightJSON(src, colorprofile.ANSI))

	colored := highlightJSON(src, colorprofile.TrueColor)
	assert.NotEqual(t, src, colored)
	assert.Equal(t, src, ansi.Strip(colored))
}

func TestSetupPrint(t *testing.T) {
	setupFlags.print = true
	t.Cleanup(func() { setupFlags.print = false })

	var buf bytes.Buffer
	setupCmd.SetOut(&buf)
	t.Cleanup(func() { setupCmd.SetOut(nil) })

	require.NoError(t, runSetup(setupCmd, nil))
	assert.Contains(t, buf.String(), "quote_delay: 1.5s")
	assert.Contains(t, buf.String(), "http_addr: 127.0.0.1:8080")
}
