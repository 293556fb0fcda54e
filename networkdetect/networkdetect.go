package networkdetect

import (
	"math"
	"net/url"
	"time"

	"github.com/egaotan/anchor-memo/config"
	"github.com/go-ping/ping"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	PingCount   = 3
	PingTimeout = 3 * time.Second
)

// Host returns the host part of an rpc endpoint url.
func Host(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", errors.Errorf("endpoint %s has no host", endpoint)
	}
	return u.Hostname(), nil
}

func detect(host string) (time.Duration, error) {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return 0, err
	}
	pinger.Count = PingCount
	pinger.Timeout = PingTimeout
	// blocks until finished
	if err := pinger.Run(); err != nil {
		return 0, err
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, errors.Errorf("no reply from %s", host)
	}
	return stats.AvgRtt, nil
}

// Fastest pings every node and returns the one with the lowest average rtt.
// Nodes that cannot be pinged are skipped.
func Fastest(nodes []*config.Node, logger *zap.SugaredLogger) (*config.Node, time.Duration, error) {
	return fastest(nodes, detect, logger)
}

func fastest(nodes []*config.Node, detect func(string) (time.Duration, error), logger *zap.SugaredLogger) (*config.Node, time.Duration, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	minttl := time.Duration(math.MaxInt64)
	var best *config.Node
	for _, node := range nodes {
		host, err := Host(node.Rpc)
		if err != nil {
			logger.Infof("node %s err: %s", node.Rpc, err)
			continue
		}
		ttl, err := detect(host)
		if err != nil {
			logger.Infof("ping %s err: %s", host, err)
			continue
		}
		logger.Infof("ping %s ttl: %d ms", host, ttl.Milliseconds())
		if ttl < minttl {
			minttl = ttl
			best = node
		}
	}
	if best == nil {
		return nil, 0, errors.New("no node answered ping")
	}
	return best, minttl, nil
}
