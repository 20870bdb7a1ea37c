package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	t.Setenv("RELAYBOT_TEST_STR", "  value ")
	assert.Equal(t, "value", String("RELAYBOT_TEST_STR", "def"))
	t.Setenv("RELAYBOT_TEST_STR", "   ")
	assert.Equal(t, "def", String("RELAYBOT_TEST_STR", "def"))
}

func TestInt(t *testing.T) {
	t.Setenv("RELAYBOT_TEST_INT", "7")
	assert.Equal(t, 7, Int("RELAYBOT_TEST_INT", 3))
	t.Setenv("RELAYBOT_TEST_INT", "seven")
	assert.Equal(t, 3, Int("RELAYBOT_TEST_INT", 3))
}

func TestFloat(t *testing.T) {
	t.Setenv("RELAYBOT_TEST_FLOAT", "0.5")
	assert.Equal(t, 0.5, Float("RELAYBOT_TEST_FLOAT", 0.1))
	t.Setenv("RELAYBOT_TEST_FLOAT", "half")
	assert.Equal(t, 0.1, Float("RELAYBOT_TEST_FLOAT", 0.1))
}

func TestBool(t *testing.T) {
	t.Setenv("RELAYBOT_TEST_BOOL", "on")
	assert.True(t, Bool("RELAYBOT_TEST_BOOL", false))
	t.Setenv("RELAYBOT_TEST_BOOL", "off")
	assert.False(t, Bool("RELAYBOT_TEST_BOOL", true))
	t.Setenv("RELAYBOT_TEST_BOOL", "maybe")
	assert.True(t, Bool("RELAYBOT_TEST_BOOL", true))
}

func TestSeconds(t *testing.T) {
	t.Setenv("RELAYBOT_TEST_SECS", "15")
	assert.Equal(t, 15*time.Second, Seconds("RELAYBOT_TEST_SECS", time.Minute))
	t.Setenv("RELAYBOT_TEST_SECS", "-1")
	assert.Equal(t, time.Minute, Seconds("RELAYBOT_TEST_SECS", time.Minute))
}
