package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultServerURL = "http://localhost:8080"
	bondsPath        = "/api/v1/bonds"
	requestTimeout   = 30 * time.Second
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type seedConfig struct {
	APIKey       string
	ServerURL    string
	FixturesPath string
}

type fixtureFile struct {
	Bonds []fixtureBond `yaml:"bonds"`
}

type fixtureBond struct {
	ISIN     string `yaml:"isin" json:"isin"`
	Size     int64  `yaml:"size" json:"size"`
	Currency string `yaml:"currency" json:"currency"`
	Maturity string `yaml:"maturity" json:"maturity"`
	LEI      string `yaml:"lei" json:"lei"`
}

type seedResult struct {
	Created int
	Failed  int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	raw := defaultFixtures
	if cfg.FixturesPath != "" {
		raw, err = os.ReadFile(cfg.FixturesPath)
		if err != nil {
			logger.Fatalf("read fixtures: %v", err)
		}
	}
	bonds, err := parseFixtures(raw)
	if err != nil {
		logger.Fatalf("parse fixtures: %v", err)
	}

	client := &http.Client{Timeout: requestTimeout}
	result := seedBonds(ctx, client, cfg.ServerURL, cfg.APIKey, bonds, logger)
	logger.WithFields(logrus.Fields{
		"created": result.Created,
		"failed":  result.Failed,
	}).Info("bond seeding finished")
	if result.Failed > 0 {
		os.Exit(1)
	}
}

func loadConfig() (*seedConfig, error) {
	key := strings.TrimSpace(os.Getenv("BONDS_API_KEY"))
	if key == "" {
		return nil, errors.New("BONDS_API_KEY is required: BONDS_API_KEY=<api key> go run ./cmd/data")
	}
	return &seedConfig{
		APIKey:       key,
		ServerURL:    strings.TrimRight(envOrDefault("BONDS_SERVER_URL", defaultServerURL), "/"),
		FixturesPath: strings.TrimSpace(os.Getenv("BONDS_FIXTURES")),
	}, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseFixtures(raw []byte) ([]fixtureBond, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	if len(file.Bonds) == 0 {
		return nil, errors.New("no bonds in fixtures")
	}
	return file.Bonds, nil
}

// seedBonds posts every bond and keeps going after a failure.
func seedBonds(ctx context.Context, client *http.Client, serverURL, apiKey string, bonds []fixtureBond, logger logrus.FieldLogger) seedResult {
	var result seedResult
	for _, bond := range bonds {
		entry := logger.WithFields(logrus.Fields{"isin": bond.ISIN, "lei": bond.LEI})
		if err := postBond(ctx, client, serverURL+bondsPath, apiKey, bond); err != nil {
			entry.WithError(err).Error("error creating bond")
			result.Failed++
			continue
		}
		entry.Info("created bond")
		result.Created++
	}
	return result
}

func postBond(ctx context.Context, client *http.Client, url, apiKey string, bond fixtureBond) error {
	body, err := json.Marshal(bond)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		content, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(content)))
	}
	return nil
}
