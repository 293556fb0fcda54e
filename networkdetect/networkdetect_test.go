package networkdetect

import (
	"testing"
	"time"

	"github.com/egaotan/anchor-memo/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	host, err := Host("https://api.devnet.solana.com:443")
	require.NoError(t, err)
	assert.Equal(t, "api.devnet.solana.com", host)
	_, err = Host("no-scheme")
	assert.Error(t, err)
}

func TestFastest(t *testing.T) {
	nodes := []*config.Node{
		{Rpc: "http://slow:8899"},
		{Rpc: "http://down:8899"},
		{Rpc: "http://fast:8899"},
		{Rpc: "::bad"},
	}
	rtt := map[string]time.Duration{"slow": 80 * time.Millisecond, "fast": 12 * time.Millisecond}
	best, ttl, err := fastest(nodes, func(host string) (time.Duration, error) {
		if d, ok := rtt[host]; ok {
			return d, nil
		}
		return 0, errors.New("unreachable")
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://fast:8899", best.Rpc)
	assert.Equal(t, 12*time.Millisecond, ttl)

	_, _, err = fastest(nodes[1:2], func(string) (time.Duration, error) { return 0, errors.New("unreachable") }, nil)
	assert.Error(t, err)
}
