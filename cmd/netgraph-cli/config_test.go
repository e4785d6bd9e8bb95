package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, fmt string }{flagURL, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagFmt = orig.fmt
	})
}

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// setEnv temporarily sets an environment variable and restores it on cleanup.
func setEnv(t *testing.T, key, val string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Setenv(key, val)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// writeConfigFile writes content to $HOME/.netgraph/config.yaml.
func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	cfgDir := filepath.Join(home, ".netgraph")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestResolveConfigEnvURL verifies that NETGRAPH_URL overrides the default URL.
func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	setEnv(t, "NETGRAPH_URL", "http://env-server:9090")

	// Point HOME at a temp dir so there's no config file to interfere.
	setEnv(t, "HOME", t.TempDir())

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q, want %q", flagURL, "http://env-server:9090")
	}
}

// TestResolveConfigFlagTakesPrecedenceOverEnv verifies that an explicit flag
// value is not overridden by the environment variable.
func TestResolveConfigFlagTakesPrecedenceOverEnv(t *testing.T) {
	resetFlags(t)
	setEnv(t, "NETGRAPH_URL", "http://env-server:9090")
	setEnv(t, "HOME", t.TempDir())

	flagURL = "http://explicit-flag:1234"
	resolveConfig()

	if flagURL != "http://explicit-flag:1234" {
		t.Errorf("explicit flag should win; got %q", flagURL)
	}
}

// TestResolveConfigFlatYAML verifies that a flat-format config file is read.
func TestResolveConfigFlatYAML(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "NETGRAPH_URL")

	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeConfigFile(t, home, "url: http://from-file:8080\n")

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://from-file:8080" {
		t.Errorf("flagURL from flat config: got %q, want %q", flagURL, "http://from-file:8080")
	}
}

// TestResolveConfigProfileYAML verifies that profile-based config is resolved
// using the active_profile key.
func TestResolveConfigProfileYAML(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "NETGRAPH_URL")

	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeConfigFile(t, home, `
active_profile: staging
profiles:
  default:
    url: http://default:3040
  staging:
    url: http://staging:4040
`)

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://staging:4040" {
		t.Errorf("flagURL from profile: got %q, want %q", flagURL, "http://staging:4040")
	}
}

// TestResolveConfigDefaultProfile verifies that when active_profile is empty
// the "default" profile is used.
func TestResolveConfigDefaultProfile(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "NETGRAPH_URL")

	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeConfigFile(t, home, `
profiles:
  default:
    url: http://default-profile:5050
`)

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://default-profile:5050" {
		t.Errorf("flagURL from default profile: got %q, want %q", flagURL, "http://default-profile:5050")
	}
}

// TestResolveConfigMissingFile verifies that a missing config file is silently
// ignored and flag defaults are unchanged.
func TestResolveConfigMissingFile(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "NETGRAPH_URL")
	setEnv(t, "HOME", t.TempDir())

	flagURL = defaultURL
	resolveConfig() // must not panic

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default; got %q", flagURL)
	}
}

// TestResolveConfigInvalidYAML verifies that a malformed config file is
// silently ignored.
func TestResolveConfigInvalidYAML(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "NETGRAPH_URL")

	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeConfigFile(t, home, ":::not-yaml:::")

	flagURL = defaultURL
	resolveConfig() // must not panic

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default on bad YAML; got %q", flagURL)
	}
}

// TestResolveConfigEnvNotOverriddenByFile verifies that env vars take
// precedence over config file values.
func TestResolveConfigEnvNotOverriddenByFile(t *testing.T) {
	resetFlags(t)
	setEnv(t, "NETGRAPH_URL", "http://env-wins:7000")

	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeConfigFile(t, home, "url: http://file:9000\n")

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://env-wins:7000" {
		t.Errorf("flagURL should be env value; got %q", flagURL)
	}
}

// TestWriteConfigKeepsOtherProfiles verifies that init adds a profile without
// dropping existing ones and makes it active.
func TestWriteConfigKeepsOtherProfiles(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "NETGRAPH_URL")

	home := t.TempDir()
	setEnv(t, "HOME", home)
	writeConfigFile(t, home, `
active_profile: default
profiles:
  default:
    url: http://default:3040
`)

	if _, err := writeConfig("http://prod:3040", "prod"); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	_, cfg, err := doctorLoadConfig()
	if err != nil {
		t.Fatalf("doctorLoadConfig: %v", err)
	}
	if cfg.ActiveProfile != "prod" {
		t.Errorf("active profile: got %q, want prod", cfg.ActiveProfile)
	}
	if cfg.Profiles["default"].URL != "http://default:3040" {
		t.Errorf("default profile lost: %+v", cfg.Profiles)
	}

	flagURL = defaultURL
	if got := doctorResolveURL(cfg); got != "http://prod:3040" {
		t.Errorf("doctorResolveURL: got %q", got)
	}
}
