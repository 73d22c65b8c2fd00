// Package config manages the squixl-settings host tool configuration.
//
// The configuration is a small YAML file that tells the tool where the device
// data directory lives and how the persistence engine is tuned. It follows
// OS-specific conventions for its location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/squixl/config.yaml or $HOME/.config/squixl/config.yaml
//   - macOS: $HOME/.config/squixl/config.yaml
//   - Windows: %LOCALAPPDATA%\squixl\config.yaml
//
// The default data directory is "data" next to the configuration file.
//
// # Example
//
//	version: 1
//	data_dir: /home/me/.config/squixl/data
//	debounce: 10s
//	max_backups: 10
//	tick_interval: 1s
//	log_level: info
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engineOpts := cfg.EngineOptions()
//
// Command-line flags override file values before Validate is called.
package config
