package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mchineboy/ecrtool/internal/logging"
)

func TestFactoryCreateLogger(t *testing.T) {
	testCases := []struct {
		name           string
		level          logging.Level
		format         logging.Format
		expectError    bool
		expectJSON     bool
		expectDebugOut bool
	}{
		{name: "debug_structured", level: logging.LevelDebug, format: logging.FormatStructured, expectJSON: true, expectDebugOut: true},
		{name: "info_structured", level: logging.LevelInfo, format: logging.FormatStructured, expectJSON: true},
		{name: "warn_console", level: logging.LevelWarn, format: logging.FormatConsole},
		{name: "unsupported_level", level: logging.Level("verbose"), format: logging.FormatStructured, expectError: true},
		{name: "unsupported_format", level: logging.LevelInfo, format: logging.Format("xml"), expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "log.out")
			factory := &logging.Factory{OutputPaths: []string{output}}

			logger, err := factory.CreateLogger(tc.level, tc.format)
			if tc.expectError {
				require.Error(t, err)
				require.Nil(t, logger)
				return
			}
			require.NoError(t, err)

			logger.Debug("debug message")
			logger.Error("error message")
			require.NoError(t, logger.Sync())

			contents, err := os.ReadFile(output)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(contents)), "\n")

			if tc.expectDebugOut {
				require.Len(t, lines, 2)
			} else {
				require.Len(t, lines, 1)
			}

			var entry map[string]any
			isJSON := json.Unmarshal([]byte(lines[len(lines)-1]), &entry) == nil
			require.Equal(t, tc.expectJSON, isJSON)
			if tc.expectJSON {
				require.Equal(t, "error message", entry["msg"])
			}
		})
	}
}

func TestValidLevelAndFormat(t *testing.T) {
	require.True(t, logging.ValidLevel(logging.LevelInfo))
	require.False(t, logging.ValidLevel(logging.Level("trace")))
	require.True(t, logging.ValidFormat(logging.FormatConsole))
	require.False(t, logging.ValidFormat(logging.Format("text")))
}
