package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Init("test", "debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Init("test", "not-a-level")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	Init("test", "")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
