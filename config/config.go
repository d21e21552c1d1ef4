package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	ListenAddr        string `json:"listenAddr"`
	DatabasePath      string `json:"databasePath"`
	EnrichmentBaseURL string `json:"enrichmentBaseURL"`
	SdsFolderPath     string `json:"sdsFolderPath"`
	ImportSourceURL   string `json:"importSourceURL"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./chemtrack_config.json"

func defaults(c Config) Config {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "./chemtrack.db"
	}
	if c.EnrichmentBaseURL == "" {
		c.EnrichmentBaseURL = "https://pubchem.ncbi.nlm.nih.gov"
	}
	if c.SdsFolderPath == "" {
		c.SdsFolderPath = "./sds"
	}
	return c
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = defaults(Config{})
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		cfg = defaults(Config{})
		return cfg, err
	}
	cfg = defaults(tempCfg)

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	newCfg = defaults(newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
