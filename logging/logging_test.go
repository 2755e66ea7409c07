// SPDX-License-Identifier: MIT

package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geosparse/logging"
)

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(slog.LevelWarn, logging.FormatJSON, &buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "row", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "shown", rec["msg"])
	require.EqualValues(t, 3, rec["row"])

	buf.Reset()
	log, err = logging.New(slog.LevelDebug, logging.FormatText, &buf)
	require.NoError(t, err)
	log.Debug("pattern built", "nnz", 14)
	require.Contains(t, buf.String(), "level=DEBUG")
	require.Contains(t, buf.String(), "nnz=14")

	_, err = logging.New(slog.LevelInfo, "xml", &buf)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, lvl)

	_, err = logging.ParseLevel("chatty")
	require.Error(t, err)
}
