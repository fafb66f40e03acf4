package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/era5-rechunk/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	result := domain.CellResult{
		Cell:        "SX5765",
		Years:       7,
		Rows:        2557,
		Path:        "/out/SX5765.csv",
		CompletedAt: now,
	}

	msg, err := serializeToMessage(result)
	require.NoError(t, err)

	assert.Equal(t, []byte("SX5765"), msg.Key)
	assert.JSONEq(t,
		`{"cell":"SX5765","years":7,"rows":2557,"path":"/out/SX5765.csv","completed_at":"2026-03-14T09:30:00Z"}`,
		string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "completed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[0].Value)
}
