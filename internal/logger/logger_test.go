package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug", "json")
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("job_id", 7).Info("job created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "job created", entry["msg"])
	require.EqualValues(t, 7, entry["job_id"])
}

func TestNewWithOutput_UnknownLevel(t *testing.T) {
	log := NewWithOutput(&bytes.Buffer{}, "loud", "text")
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}
