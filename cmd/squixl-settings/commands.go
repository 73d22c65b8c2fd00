package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/muurk/squixl-settings/internal/config"
	"github.com/muurk/squixl-settings/internal/device"
	"github.com/muurk/squixl-settings/internal/logging"
	"github.com/muurk/squixl-settings/internal/persist"
	"github.com/muurk/squixl-settings/internal/settings"
	"github.com/muurk/squixl-settings/internal/storage"
	"github.com/muurk/squixl-settings/internal/tui"
	"github.com/muurk/squixl-settings/internal/ui"
)

// Global flags
var (
	dataDir      string
	configPath   string
	logLevel     string
	outputFormat string
)

// Command flags
var (
	groupName    string
	exportOutput string
	wifiPassword string
	assumeYes    bool
	dumpToLog    bool
	saveConfig   bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data-dir", "", "Directory holding settings.json and its backups (overrides config)")
	pf.StringVar(&configPath, "config", "", "Path to the tool configuration file")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json, yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(wifiCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(editCmd)
}

// session is an opened settings store.
type session struct {
	cfg *config.Config
	dev *device.Device
}

// loadConfig reads the tool configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The flag and environment were applied in setupLogging.
	if logLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" && cfg.LogLevel != "" {
		if err := logging.Initialize(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// openSession loads the settings document, creating it on first run.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fsys, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	dev, err := device.New(fsys, cfg.EngineOptions())
	if err != nil {
		return nil, err
	}
	if err := dev.Start(); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, dev: dev}, nil
}

// commit forces pending changes to storage.
func (s *session) commit() error {
	if err := s.dev.Flush(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Load or create the settings document",
	Long: `Load the settings document from the data directory, creating it with
defaults when it is missing, unreadable or from an unsupported version.`,
	Example: `  # Create settings in the default data directory
  squixl-settings init

  # Use a specific directory and remember it
  squixl-settings init --data-dir ./watch --save-config`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&saveConfig, "save-config", false, "Write the effective tool configuration to the config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	e := s.dev.Engine
	title := "Settings loaded"
	if e.State() == persist.StateFresh {
		title = "Settings created"
	}

	details := []ui.Detail{
		ui.D("Data dir", s.cfg.DataDir),
		ui.D("State", e.State().String()),
		ui.D("Wi-Fi creds", yesNo(e.HasWiFiCreds())),
		ui.D("Country set", yesNo(e.HasCountrySet())),
	}

	if saveConfig {
		path := configPath
		if path == "" {
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}
		if err := s.cfg.Save(path); err != nil {
			return err
		}
		details = append(details, ui.D("Config", path))
	}

	ui.PrintSuccess(cmd.OutOrStdout(), title, details...)
	return nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show settings",
	Long:  `Display every setting, group by group, or a single group with --group.`,
	Example: `  # Show everything
  squixl-settings show

  # One group as key=value lines
  squixl-settings show --group mqtt --format compact

  # YAML for scripting
  squixl-settings show --format yaml`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&groupName, "group", "g", "", "Only show this group ("+strings.Join(groupNames(), ", ")+")")
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := parseFormat(outputFormat)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	groups, err := selectGroups(s.dev.Registry, groupName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f {
	case formatJSON, formatYAML:
		views := make([]groupView, 0, len(groups))
		for _, g := range groups {
			views = append(views, viewGroup(g))
		}
		return writeStructured(out, f, views)
	default:
		writeGroups(out, f, groups)
	}
	return nil
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Long: `Display a single setting by its document key, such as "volume" or
"mqtt.broker_ip". The compact format prints the raw value for scripts.`,
	Example: `  squixl-settings get volume
  squixl-settings get mqtt.broker_port --format compact`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	f, err := parseFormat(outputFormat)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	opt, err := s.dev.Option(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f {
	case formatCompact:
		fmt.Fprintln(out, opt.Text())
	case formatJSON, formatYAML:
		return writeStructured(out, f, viewOption(opt))
	default:
		v := viewOption(opt)
		params := []ui.Detail{ui.D("Value", v.Value), ui.D("Type", v.Kind)}
		if v.Hint != "" {
			params = append(params, ui.D("Accepts", v.Hint))
		}
		fmt.Fprintln(out, ui.NewHeader(opt.Label(), opt.Key(), params...).Render())
	}
	return nil
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change a setting and commit it immediately.

Values outside the accepted range are clamped and over-long text is
truncated. Input that cannot be parsed leaves the setting unchanged.`,
	Example: `  squixl-settings set volume 12
  squixl-settings set time_24hour true
  squixl-settings set case_color "#FF8800"`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	stored, err := s.dev.Set(key, value)
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	opt, _ := s.dev.Option(key)
	details := []ui.Detail{ui.D("Setting", key), ui.D("Value", opt.Display())}
	if stored != value && !opt.Describe().Masked {
		details = append(details, ui.D("Requested", value))
	}
	ui.PrintSuccess(cmd.OutOrStdout(), "Setting saved", details...)
	return nil
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List numbered backups",
	Args:  cobra.NoArgs,
	RunE:  runBackups,
}

func runBackups(cmd *cobra.Command, args []string) error {
	f, err := parseFormat(outputFormat)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	backups, err := s.dev.Engine.Backups()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f {
	case formatJSON, formatYAML:
		return writeStructured(out, f, backups)
	case formatCompact:
		for _, b := range backups {
			fmt.Fprintf(out, "%d\t%s\t%d\n", b.Number, b.Path, b.Size)
		}
		return nil
	}

	if len(backups) == 0 {
		ui.PrintWarning(out, "No backups yet", ui.D("Data dir", s.cfg.DataDir))
		return nil
	}
	params := make([]ui.Detail, 0, len(backups))
	for _, b := range backups {
		params = append(params, ui.D(strconv.Itoa(b.Number),
			fmt.Sprintf("%s  %d bytes  %s", b.Path, b.Size, b.ModTime.Format("2006-01-02 15:04:05"))))
	}
	subtitle := fmt.Sprintf("%d kept, cap %d", len(backups), s.dev.Engine.Options().MaxBackups)
	fmt.Fprintln(out, ui.NewHeader("Backups", subtitle, params...).Render())
	return nil
}

var restoreCmd = &cobra.Command{
	Use:   "restore <number>",
	Short: "Replace the settings with a backup",
	Long: `Replace the settings document with a numbered backup. The backup is
migrated to the current version first. The current document is not backed up.`,
	Example: `  squixl-settings backups
  squixl-settings restore 12`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runRestore(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid backup number %q", args[0])
	}

	if !assumeYes {
		ok := ui.ConfirmOverwrite(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("RESTORE BACKUP %d", n), []string{
			"The current settings document will be replaced",
			"The current document is not backed up first",
		})
		if !ok {
			return nil
		}
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	if err := s.dev.Engine.Restore(n); err != nil {
		ui.PrintFailure(cmd.OutOrStdout(), "Restore failed", err, "Run 'squixl-settings backups' to list available backups")
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Backup restored",
		ui.D("Backup", strconv.Itoa(n)),
		ui.D("Data dir", s.cfg.DataDir),
	)
	return nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the persisted document",
	Long: `Print the settings document as it is stored, one line at a time. With
--log the lines go to the debug log instead of stdout.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpToLog, "log", false, "Write to the debug log")
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	var w io.Writer
	if !dumpToLog {
		w = cmd.OutOrStdout()
	}
	return s.dev.Engine.PrintFile(w)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export settings as JSON",
	Long: `Write the settings, or a single group, as a partial settings document
that can be applied to another device with import.`,
	Example: `  squixl-settings export --group weather -o weather.json`,
	Args:    cobra.NoArgs,
	RunE:    runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&groupName, "group", "g", "", "Only export this group")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	groups, err := selectGroups(s.dev.Registry, groupName)
	if err != nil {
		return err
	}

	ids := make([]settings.GroupID, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	doc, err := s.dev.Registry.Export(ids...)
	if err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	if exportOutput == "" {
		return writeDocument(cmd.OutOrStdout(), doc)
	}
	if err := os.WriteFile(exportOutput, pretty.Pretty(doc), storage.FileMode); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ui.PrintSuccess(cmd.OutOrStdout(), "Settings exported",
		ui.D("File", exportOutput),
		ui.D("Groups", strconv.Itoa(len(groups))),
	)
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply a settings document",
	Long: `Apply the settings found in a JSON document and commit them. Keys that
are missing or hold the wrong type are skipped. Use "-" to read stdin.`,
	Example: `  squixl-settings import weather.json
  cat backup.json | squixl-settings import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	applied, err := s.dev.Registry.Import(data)
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Settings imported",
		ui.D("Applied", strconv.Itoa(applied)),
		ui.D("Known", strconv.Itoa(len(s.dev.Registry.Options()))),
	)
	return nil
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings interactively",
	Long: `Open the interactive settings editor. Changes are committed after the
debounce period, when s is pressed, and on exit.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	if err := tui.Run(s.dev, s.cfg.TickInterval); err != nil {
		return err
	}
	return s.commit()
}

// groupSlugs maps --group names onto groups.
var groupSlugs = map[string]settings.GroupID{
	"general":    settings.GroupGeneral,
	"network":    settings.GroupNetwork,
	"wifi":       settings.GroupNetwork,
	"audio":      settings.GroupAudio,
	"haptics":    settings.GroupHaptics,
	"weather":    settings.GroupWeather,
	"mqtt":       settings.GroupMQTT,
	"screenshot": settings.GroupScreenshot,
	"feed":       settings.GroupFeed,
	"rss":        settings.GroupFeed,
}

func groupNames() []string {
	return []string{"general", "network", "audio", "haptics", "weather", "mqtt", "screenshot", "feed"}
}

// selectGroups resolves a --group value. An empty name selects every group.
func selectGroups(reg *settings.Registry, name string) ([]*settings.Group, error) {
	if name == "" {
		return reg.Groups(), nil
	}
	id, ok := groupSlugs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown group %q (valid: %s)", name, strings.Join(groupNames(), ", "))
	}
	g, _ := reg.Group(id)
	return []*settings.Group{g}, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
