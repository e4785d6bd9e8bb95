package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/netgraph/client"
)

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL string `yaml:"url"`
}

// profilesFile is the top-level config file structure.
type profilesFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		initProfile string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up netgraph CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.netgraph/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initURL, initProfile, initURL != "")
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initProfile, "profile", "default", "Profile name to write")
	return cmd
}

func runInit(url, profile string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Println("\n  netgraph Setup")
		fmt.Println("  ──────────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		url = strings.TrimSpace(line)
	}

	if url == "" {
		url = defaultURL
	}

	if !nonInteractive {
		fmt.Print("\n  Testing connection... ")
	}

	ver, err := testConnection(url)
	if err != nil {
		if !nonInteractive {
			fmt.Println("✗")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if !nonInteractive {
		fmt.Printf("✓ Connected (v%s)\n", ver)
	}

	cfgPath, err := writeConfig(url, profile)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if nonInteractive {
		fmt.Printf("Config saved to %s\n", cfgPath)
	} else {
		fmt.Printf("\n  ✓ Config saved to %s\n", cfgPath)
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    netgraph-cli doctor                     # Full diagnostic check")
		fmt.Println("    netgraph-cli graph social --format table # View the friendship graph")
		fmt.Println("    netgraph-cli --help                     # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if h.Version == "" {
		return "unknown", nil
	}
	return h.Version, nil
}

// writeConfig sets url on profile, keeping other profiles already in the file,
// and makes profile active.
func writeConfig(url, profile string) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	var cfg profilesFile
	if data, err := os.ReadFile(cfgPath); err == nil {
		yaml.Unmarshal(data, &cfg) //nolint:errcheck // a corrupt file is replaced.
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]profileConfig{}
	}
	cfg.Profiles[profile] = profileConfig{URL: url}
	cfg.ActiveProfile = profile

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
