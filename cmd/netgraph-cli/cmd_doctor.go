package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/netgraph/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server and its data store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor() error {
	fmt.Println("\nnetgraph Doctor")
	fmt.Println("===============")

	var results []checkResult

	// 1. Config file.
	cfgPath, cfg, cfgErr := doctorLoadConfig()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: false,
			Detail: cfgPath,
			Hint:   "Run: netgraph-cli init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	url := doctorResolveURL(cfg)
	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: url})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(url)

	// 2. Server reachable.
	h, err := c.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: false,
			Detail: url,
			Hint:   fmt.Sprintf("Is the netgraph server running? Try: systemctl status netgraph\n   Error: %v", err),
		})
	} else {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: true,
			Detail: fmt.Sprintf("v%s, schema %d", h.Version, h.SchemaVersion),
		})

		// 3. Data store.
		r, rerr := c.Ready(ctx)
		switch {
		case rerr == nil:
			results = append(results, checkResult{Name: "Data store", Passed: true, Detail: r.Checks["store"]})
		case r != nil:
			results = append(results, checkResult{
				Name: "Data store", Passed: false, Detail: r.Checks["store"],
				Hint: "Check DATABASE_URL or SQLITE_PATH on the server",
			})
		default:
			results = append(results, checkResult{Name: "Data store", Passed: false, Hint: rerr.Error()})
		}
	}

	return printChecks(results)
}

func printChecks(results []checkResult) error {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := ok("✓")
		if !r.Passed {
			mark = bad("✗")
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("   Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println(bad("Some checks failed."))
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println(ok("All checks passed!"))
	return nil
}

func doctorLoadConfig() (string, *profilesFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg profilesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// doctorResolveURL applies the same precedence as resolveConfig.
func doctorResolveURL(cfg *profilesFile) string {
	url := flagURL
	if url == defaultURL {
		if v := os.Getenv("NETGRAPH_URL"); v != "" {
			url = v
		}
	}

	if cfg != nil && url == defaultURL {
		profile := cfg.ActiveProfile
		if profile == "" {
			profile = "default"
		}
		if p, ok := cfg.Profiles[profile]; ok && p.URL != "" {
			url = p.URL
		}
	}

	return url
}
