package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/egaotan/anchor-memo/client"
	"github.com/egaotan/anchor-memo/config"
	"github.com/egaotan/anchor-memo/networkdetect"
	"github.com/egaotan/anchor-memo/notify"
	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/server"
	"github.com/egaotan/anchor-memo/store"
	"github.com/egaotan/anchor-memo/utils"
	"github.com/gagliardetto/solana-go"
)

// usage: memorelay <config.json> [memo]
// With a memo the binary sends it once and exits, otherwise it serves the http api.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)
	go shutdown(cancel, quit)

	if len(os.Args) < 2 {
		panic("args is invalid")
	}
	cfg, err := config.Load(os.Args[1])
	if err != nil {
		panic(err)
	}
	if cfg.LogPath != "" {
		config.LogPath = cfg.LogPath
	}
	logger := utils.NewLog(config.LogPath, config.ClientLog)
	defer logger.Sync()

	node := cfg.Nodes[0]
	if cfg.DetectNodes {
		fastest, ttl, err := networkdetect.Fastest(cfg.Nodes, utils.NewLog(config.LogPath, config.NetworkLog))
		if err != nil {
			logger.Infof("detect nodes err: %s, use %s", err, node.Rpc)
		} else {
			logger.Infof("fastest node: %s, ttl: %d ms", fastest.Rpc, ttl.Milliseconds())
			node = fastest
		}
	}

	relayProgram := cfg.RelayProgram
	if relayProgram == (solana.PublicKey{}) {
		relayProgram = program.MemoRelay
	}
	c := client.NewClient(client.NewRPCChain(node.Rpc, cfg.SkipPreflight), relayProgram, cfg.Cluster, logger)
	c.SetPreflight(cfg.Preflight)
	if cfg.MaxMemoLength != 0 {
		c.SetMaxMemoLength(cfg.MaxMemoLength)
	}
	player, err := c.ImportWallet(cfg.Key)
	if err != nil {
		panic(err)
	}
	if err := c.SetPlayer(player); err != nil {
		panic(err)
	}
	for _, key := range cfg.Cosigners {
		cosigner, err := c.ImportWallet(key)
		if err != nil {
			panic(err)
		}
		if err := c.AddCosigner(cosigner); err != nil {
			panic(err)
		}
	}

	var s *store.Store
	if cfg.DBUrl != "" {
		dao, err := store.NewDao(cfg.DBUrl, cfg.DBScheme, cfg.DBUser, cfg.DBPasswd)
		if err != nil {
			panic(err)
		}
		s = store.NewStore(ctx, dao, utils.NewLog(config.LogPath, config.StoreLog))
		s.Start()
		defer s.Stop()
		c.SetStore(s)
	}

	if len(os.Args) > 2 {
		sendOnce(ctx, c, strings.Join(os.Args[2:], " "))
		cancel()
		return
	}

	srv, err := server.NewServer(ctx, cfg.Listen, c, utils.NewLog(config.LogPath, config.ServerLog))
	if err != nil {
		panic(err)
	}
	if s != nil {
		srv.SetFinder(s)
	}
	if cfg.DingUrl != "" {
		srv.SetNotifier(notify.NewNotifier(cfg.DingUrl))
	}
	fmt.Printf("payer: %s, relay: %s, listen: %s\n", player, relayProgram, cfg.Listen)
	srv.Service()
}

func sendOnce(ctx context.Context, c *client.Client, memo string) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	receipt, err := c.SendMemo(ctx, memo)
	if err != nil {
		fmt.Printf("send memo failed: %s (retriable: %v)\n", err, client.Retriable(err))
		return
	}
	fmt.Printf("memo sent: %s\nfee: %s SOL\n%s\n", receipt.Signature, receipt.Fee, receipt.URL)
}

func shutdown(cancel context.CancelFunc, quit <-chan os.Signal) {
	osCall := <-quit
	fmt.Printf("System call: %v, memo relay is shutting down......\n", osCall)
	cancel()
}
