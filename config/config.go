package config

import (
	"encoding/json"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var (
	LogPath     = "./logs/"
	ClientLog   = "client"
	ServerLog   = "server"
	StoreLog    = "store"
	NetworkLog  = "network"
	ExplorerURL = "https://explorer.solana.com"
)

const (
	EnvKey      = "MEMORELAY_KEY"
	EnvDBPasswd = "MEMORELAY_DB_PASSWD"
	EnvDingUrl  = "MEMORELAY_DING_URL"
)

type Node struct {
	Rpc    string `json:"rpc"`
	Ws     string `json:"ws"`
	Usable bool   `json:"usable"`
}

type Config struct {
	Nodes         []*Node          `json:"nodes"`
	DetectNodes   bool             `json:"detect_nodes"`
	Cluster       string           `json:"cluster"`
	Key           string           `json:"key"`
	Cosigners     []string         `json:"cosigners"`
	RelayProgram  solana.PublicKey `json:"relay_program"`
	MaxMemoLength int              `json:"max_memo_length"`
	Preflight     bool             `json:"preflight"`
	SkipPreflight bool             `json:"skip_preflight"`
	DingUrl       string           `json:"ding-url"`
	DBUrl         string           `json:"db_url"`
	DBScheme      string           `json:"db_scheme"`
	DBUser        string           `json:"db_user"`
	DBPasswd      string           `json:"db_passwd"`
	Listen        string           `json:"listen"`
	LogPath       string           `json:"log_path"`
}

// Load reads the JSON config at path and applies secrets from .env and the environment.
func Load(path string) (*Config, error) {
	infoJson, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	if err := json.Unmarshal(infoJson, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load()
	cfg.ApplyEnv()
	cfg.Nodes = UsableNodes(cfg.Nodes)
	if len(cfg.Nodes) == 0 {
		return nil, errors.New("there is no usable node")
	}
	if cfg.Cluster == "" {
		cfg.Cluster = "devnet"
	}
	if cfg.Listen == "" {
		cfg.Listen = "0.0.0.0:8089"
	}
	return &cfg, nil
}

func (cfg *Config) ApplyEnv() {
	if v := os.Getenv(EnvKey); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv(EnvDBPasswd); v != "" {
		cfg.DBPasswd = v
	}
	if v := os.Getenv(EnvDingUrl); v != "" {
		cfg.DingUrl = v
	}
}

func UsableNodes(nodes []*Node) []*Node {
	usable := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Usable {
			usable = append(usable, node)
		}
	}
	return usable
}
