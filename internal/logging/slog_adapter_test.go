// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlogHandlerForwardsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.With("service", "http").WithGroup("restart").Warn("service failed",
		"attempt", 2,
		"backoff", time.Second,
		"fatal", false,
	)

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"service":"http"`,
		`"restart.attempt":2`,
		`"restart.fatal":false`,
		`"message":"service failed"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	if got := slogToZerologLevel(slog.LevelDebug); got.String() != "debug" {
		t.Errorf("debug mapped to %s", got)
	}
	if got := slogToZerologLevel(slog.LevelError + 4); got.String() != "error" {
		t.Errorf("above error mapped to %s", got)
	}
}
