package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	now := time.Date(2026, 10, 15, 14, 25, 30, 0, time.UTC)

	err := run(&out, slog.New(slog.NewTextHandler(io.Discard, nil)),
		domain.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "Electronics category (2 products)")
	assert.Contains(t, report, "Home & Living category (1 products)")
	assert.Contains(t, report, "1. Smartphone x 2 = 9000.00 TL")
	assert.Contains(t, report, "2. Tablet x 1 = 3000.00 TL")
	assert.Contains(t, report, "3. Robot Vacuum x 1 = 2125.00 TL")
	assert.Contains(t, report, "Total: 14125.00 TL")
	assert.Contains(t, report, "Total: 11125.00 TL")
	assert.Equal(t, 2, strings.Count(report, "ORDER DETAILS"))
	assert.Contains(t, report, "- 11125.00 TL - Shipped\n")
}
