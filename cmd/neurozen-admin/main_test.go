package main

import (
	"testing"

	"github.com/neurozen/neurozen/config"
	"github.com/stretchr/testify/require"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	cases := []struct {
		host   string
		remote bool
	}{
		{"", false},
		{"localhost", false},
		{"LOCALHOST", false},
		{"127.0.0.1", false},
		{"::1", false},
		{"dev-box.local", false},
		{"10.0.0.5", true},
		{"db.internal.example.com", true},
		{"192.168.1.20", true},
	}

	for _, tc := range cases {
		require.Equal(t, tc.remote, isLikelyRemoteHost(tc.host), "host %q", tc.host)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	require.Equal(t, `"neurozen"`, quoteIdentifier("neurozen"))
	require.Equal(t, `"we""ird"`, quoteIdentifier(`we"ird`))
}

func TestParseDBResetFlags(t *testing.T) {
	opts, err := parseDBResetFlags([]string{"-yes", "-seed"})
	require.NoError(t, err)
	require.True(t, opts.Yes)
	require.True(t, opts.Seed)
	require.Equal(t, defaultMigrationTimeout, opts.Timeout)

	_, err = parseDBResetFlags([]string{"-timeout", "0s"})
	require.Error(t, err)
}

func TestDBResetConfirmRemoteHostForcesPrompt(t *testing.T) {
	opts := dbResetConfirmOptions{yes: true, remoteHost: "db.example.com"}
	require.False(t, opts.IsYes())
	require.Contains(t, opts.GetWarning(), "db.example.com")

	local := dbResetConfirmOptions{yes: true}
	require.True(t, local.IsYes())
}

func TestHasRedisConfig(t *testing.T) {
	require.False(t, hasRedisConfig(nil))
	require.False(t, hasRedisConfig(&config.RedisConfig{}))
	require.True(t, hasRedisConfig(&config.RedisConfig{URI: "localhost:6379"}))
	require.False(t, hasRedisConfig(&config.RedisConfig{UseSentinel: true}))
	require.True(t, hasRedisConfig(&config.RedisConfig{
		UseSentinel:   true,
		SentinelNodes: []string{"localhost:26379"},
	}))
	require.True(t, hasRedisConfig(&config.RedisConfig{
		UseCluster:   true,
		ClusterNodes: []string{"localhost:7000"},
	}))
}
