package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetenvDuration(t *testing.T) {
	t.Setenv("TEST_TTL", "45s")
	assert.Equal(t, 45*time.Second, getenvDuration("TEST_TTL", time.Minute))

	t.Setenv("TEST_OTHER_SECONDS", "12")
	assert.Equal(t, 12*time.Second, getenvDuration("TEST_OTHER", time.Minute))

	t.Setenv("TEST_BAD", "soon")
	assert.Equal(t, time.Minute, getenvDuration("TEST_BAD", time.Minute))
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	assert.False(t, getenvBool("TEST_BOOL", true))
	assert.True(t, getenvBool("TEST_MISSING_BOOL", true))

	t.Setenv("TEST_INT", "3")
	assert.Equal(t, 3, getenvInt("TEST_INT", 0))
	t.Setenv("TEST_INT", "three")
	assert.Equal(t, 7, getenvInt("TEST_INT", 7))

	t.Setenv("TEST_STR", "  ")
	assert.Equal(t, "fallback", getenv("TEST_STR", "fallback"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestInitDefaults(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CLIENT_URL", "https://ibp.example")
	t.Setenv("ALLOWED_ORIGINS", "")
	Init()

	assert.True(t, IsProduction())
	assert.Equal(t, []string{"https://ibp.example"}, AllowedOrigins)
	assert.Equal(t, 30*time.Second, SnapshotCacheTTL)
}
