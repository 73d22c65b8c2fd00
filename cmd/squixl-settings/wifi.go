package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/squixl-settings/internal/settings"
	"github.com/muurk/squixl-settings/internal/ui"
)

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Manage Wi-Fi stations",
	Long: `Manage the stored Wi-Fi station profiles. Stations are numbered from 1
in the order they were added; the active station is marked with *.`,
}

func init() {
	wifiCmd.AddCommand(wifiListCmd)
	wifiCmd.AddCommand(wifiSetCmd)
	wifiCmd.AddCommand(wifiAddCmd)
	wifiCmd.AddCommand(wifiRemoveCmd)
	wifiCmd.AddCommand(wifiSelectCmd)

	for _, c := range []*cobra.Command{wifiSetCmd, wifiAddCmd} {
		c.Flags().StringVarP(&wifiPassword, "password", "p", "", "Station password (prompted when omitted)")
	}
}

var wifiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored stations",
	Args:  cobra.NoArgs,
	RunE:  runWiFiList,
}

var wifiSetCmd = &cobra.Command{
	Use:   "set <ssid>",
	Short: "Set the credentials of the active station",
	Long: `Set the SSID and password of the active station, adding the first
station when none are stored.`,
	Example: `  squixl-settings wifi set HomeNetwork
  squixl-settings wifi set HomeNetwork --password secret123`,
	Args: cobra.ExactArgs(1),
	RunE: runWiFiSet,
}

var wifiAddCmd = &cobra.Command{
	Use:   "add <ssid>",
	Short: "Add a station",
	Args:  cobra.ExactArgs(1),
	RunE:  runWiFiAdd,
}

var wifiRemoveCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove a station",
	Args:  cobra.ExactArgs(1),
	RunE:  runWiFiRemove,
}

var wifiSelectCmd = &cobra.Command{
	Use:   "select <number>",
	Short: "Make a station active",
	Args:  cobra.ExactArgs(1),
	RunE:  runWiFiSelect,
}

// stationView is the structured rendering of one station. The password is
// never printed.
type stationView struct {
	Number  int    `json:"number" yaml:"number"`
	SSID    string `json:"ssid" yaml:"ssid"`
	Channel uint8  `json:"channel" yaml:"channel"`
	HasPass bool   `json:"has_password" yaml:"has_password"`
	Active  bool   `json:"active" yaml:"active"`
}

func viewStations(st *settings.WiFiStationsOption) []stationView {
	list := st.Get()
	views := make([]stationView, 0, len(list))
	for i, s := range list {
		views = append(views, stationView{
			Number:  i + 1,
			SSID:    s.SSID,
			Channel: s.Channel,
			HasPass: s.Pass != "",
			Active:  i == st.Active(),
		})
	}
	return views
}

func runWiFiList(cmd *cobra.Command, args []string) error {
	f, err := parseFormat(outputFormat)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}

	st := s.dev.Stations()
	views := viewStations(st)
	out := cmd.OutOrStdout()

	switch f {
	case formatJSON, formatYAML:
		return writeStructured(out, f, views)
	case formatCompact:
		for _, v := range views {
			marker := " "
			if v.Active {
				marker = "*"
			}
			fmt.Fprintf(out, "%s%d\t%s\n", marker, v.Number, v.SSID)
		}
		return nil
	}

	if len(views) == 0 {
		ui.PrintWarning(out, "No stations stored", ui.D("Next", "squixl-settings wifi set <ssid>"))
		return nil
	}
	params := make([]ui.Detail, 0, len(views))
	for _, v := range views {
		key := strconv.Itoa(v.Number)
		if v.Active {
			key += " *"
		}
		params = append(params, ui.D(key, fmt.Sprintf("%s  (channel %d)", v.SSID, v.Channel)))
	}
	fmt.Fprintln(out, ui.NewHeader("Wi-Fi Stations", fmt.Sprintf("%d of %d", len(views), st.Capacity()), params...).Render())
	return nil
}

func runWiFiSet(cmd *cobra.Command, args []string) error {
	pass, err := stationPassword(cmd)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}

	s.dev.Engine.UpdateWiFiCredentials(args[0], pass)
	if err := s.commit(); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Wi-Fi credentials saved",
		ui.D("SSID", args[0]),
		ui.D("Usable", yesNo(s.dev.Engine.HasWiFiCreds())),
	)
	return nil
}

func runWiFiAdd(cmd *cobra.Command, args []string) error {
	pass, err := stationPassword(cmd)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}

	st := s.dev.Stations()
	if !st.Add(settings.NewWiFiStation(args[0], pass)) {
		return fmt.Errorf("station list is full (%d of %d)", st.Len(), st.Capacity())
	}
	if err := s.commit(); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Station added",
		ui.D("Number", strconv.Itoa(st.Len())),
		ui.D("SSID", args[0]),
	)
	return nil
}

func runWiFiRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	st := s.dev.Stations()
	i, err := stationIndex(args[0], st.Len())
	if err != nil {
		return err
	}

	ssid := st.Get()[i].SSID
	st.Remove(i)
	if err := s.commit(); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Station removed",
		ui.D("SSID", ssid),
		ui.D("Remaining", strconv.Itoa(st.Len())),
	)
	return nil
}

func runWiFiSelect(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	st := s.dev.Stations()
	i, err := stationIndex(args[0], st.Len())
	if err != nil {
		return err
	}

	st.Select(i)
	if err := s.commit(); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Active station changed",
		ui.D("Number", strconv.Itoa(i+1)),
		ui.D("SSID", st.Get()[i].SSID),
	)
	return nil
}

// stationPassword returns --password or prompts for it.
func stationPassword(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("password") {
		return wifiPassword, nil
	}
	return ui.ReadSecret(os.Stdin, cmd.ErrOrStderr(), "Password: ")
}

// stationIndex converts a 1-based station number to a list index.
func stationIndex(arg string, n int) (int, error) {
	num, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid station number %q", arg)
	}
	if num < 1 || num > n {
		return 0, fmt.Errorf("station %d does not exist (%d stored)", num, n)
	}
	return num - 1, nil
}
