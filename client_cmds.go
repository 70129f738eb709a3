package main

import (
	"errors"
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"room-service/internal/client"
	"room-service/internal/geo"
	"room-service/internal/registerroom"
	"room-service/internal/search"
	"room-service/internal/searchroom"
	"room-service/internal/tui"
)

var (
	apiURL string
	token  string
	hostID int64
	email  string
	passwd string
)

func apiClient() *client.Client {
	return client.New(apiURL, token, &http.Client{Timeout: cfg.HTTPTimeout})
}

// applyClientFlags lets flags override the environment.
func applyClientFlags(cmd *cobra.Command) {
	if !cmd.Flags().Changed("api") {
		apiURL = cfg.APIBaseURL
	}
	if !cmd.Flags().Changed("token") {
		token = cfg.APIToken
	}
	if !cmd.Flags().Changed("host-id") {
		hostID = cfg.HostID
	}
}

func locator() geo.Locator {
	return &geo.StaticLocator{At: cfg.DeviceLocation}
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Register a room from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyClientFlags(cmd)
		api := apiClient()

		if email != "" {
			resp, err := api.Login(cmd.Context(), email, passwd)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			api = api.WithToken(resp.Token)
			hostID = resp.User.ID
		}
		if hostID == 0 {
			return errors.New("a host id is required: pass --host-id or log in with --email")
		}

		m := tui.NewWizardModel(registerroom.NewStore(), tui.WizardOptions{
			Locator:   locator(),
			Geocoder:  api,
			Submitter: api,
			HostID:    hostID,
			Timeout:   cfg.HTTPTimeout,
		})
		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			return err
		}
		if room := m.Room(); room != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "registered room %s\n", room.ID)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for a place and list rooms there",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyClientFlags(cmd)
		api := apiClient()

		m := tui.NewSearchModel(searchroom.NewStore(), search.Options{
			Debounce: cfg.SearchDebounce,
			Searcher: api,
			Resolver: api,
			Locator:  locator(),
			Geocoder: api,
		}, api)
		defer m.Close()

		_, err := tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{wizardCmd, searchCmd} {
		c.Flags().StringVar(&apiURL, "api", "", "API base URL (API_BASE_URL)")
		c.Flags().StringVar(&token, "token", "", "bearer token (API_TOKEN)")
	}
	wizardCmd.Flags().Int64Var(&hostID, "host-id", 0, "host id the room is registered for (HOST_ID)")
	wizardCmd.Flags().StringVar(&email, "email", "", "log in with this email instead of --token")
	wizardCmd.Flags().StringVar(&passwd, "password", "", "password for --email")
}
