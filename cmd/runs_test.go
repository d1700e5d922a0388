//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/store"
)

func TestFormatRunsList_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, nil)

	assert.Contains(t, buf.String(), "No runs recorded")
}

func TestFormatRunsList_Entries(t *testing.T) {
	created := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	runs := []store.Run{
		{
			ID:         "9f3c2a41-0000-0000-0000-000000000000",
			Seed:       42,
			BatchSize:  10,
			NumBatches: 10,
			ExtentMode: "bbox",
			Records:    312,
			CreatedAt:  created,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "RUN")
	assert.Contains(t, output, "9f3c2a41")
	assert.Contains(t, output, "2026-03-02 09:15:00")
	assert.Contains(t, output, "42")
	assert.Contains(t, output, "312")
	assert.Contains(t, output, "bbox")
}
