package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var showPasswords bool

var credentialsCmd = &cobra.Command{
	Use:     "credentials",
	Aliases: []string{"creds"},
	Short:   "Inspect stored credentials",
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials in submission order",
	Long: `List stored credentials in the order they were submitted. Passwords are
masked unless --show-passwords is given; they are stored in plaintext.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCredentialsList(cmd, showPasswords)
	},
}

var credentialsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize stored credentials by strength",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCredentialsStats(cmd)
	},
}

var credentialsTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show credential statistics per day",
	Long: `Statistics are recorded after every password submission. The trend shows
the last recording of each day, oldest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCredentialsTrend(cmd)
	},
}

func init() {
	credentialsListCmd.Flags().BoolVar(&showPasswords, "show-passwords", false, "print stored passwords in clear text")

	credentialsCmd.AddCommand(credentialsListCmd, credentialsStatsCmd, credentialsTrendCmd)
	rootCmd.AddCommand(credentialsCmd)
}

func runCredentialsList(cmd *cobra.Command, reveal bool) error {
	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return fmt.Errorf("application context not initialized")
	}
	services, err := appCtx.Container()
	if err != nil {
		return err
	}

	creds, err := services.PasswordService.Credentials(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(creds) == 0 {
		fmt.Fprintln(out, "No credentials stored")
		return nil
	}
	return writeCredentialTable(out, creds, reveal)
}

func writeCredentialTable(out io.Writer, creds []password.Credential, reveal bool) error {
	table := tablewriter.NewWriter(out)
	table.Header("#", "Username", "Password", "Strength")
	for i, c := range creds {
		shown := maskPassword(c.Password)
		if reveal {
			shown = c.Password
		}
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			c.Username,
			shown,
			string(password.Evaluate(c.Password).Tier),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func maskPassword(pwd string) string {
	n := len([]rune(pwd))
	if n == 0 {
		return ""
	}
	return strings.Repeat("*", n)
}

func runCredentialsStats(cmd *cobra.Command) error {
	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return fmt.Errorf("application context not initialized")
	}
	services, err := appCtx.Container()
	if err != nil {
		return err
	}

	stats, err := services.PasswordService.Stats(commandContext(cmd))
	if err != nil {
		return err
	}
	return writeStatsTable(cmd.OutOrStdout(), stats)
}

func writeStatsTable(out io.Writer, stats password.Stats) error {
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Count")
	rows := [][]string{
		{"Total", strconv.Itoa(stats.Total)},
		{string(password.TierStrong), strconv.Itoa(stats.Strong)},
		{string(password.TierModerate), strconv.Itoa(stats.Moderate)},
		{string(password.TierWeak), strconv.Itoa(stats.Weak)},
		{"Violations", strconv.Itoa(stats.Violations)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func runCredentialsTrend(cmd *cobra.Command) error {
	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return fmt.Errorf("application context not initialized")
	}
	services, err := appCtx.Container()
	if err != nil {
		return err
	}

	trend, err := services.PasswordService.Trend(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(trend) == 0 {
		fmt.Fprintln(out, "No statistics recorded")
		return nil
	}
	return writeTrendTable(out, trend)
}

func writeTrendTable(out io.Writer, trend []password.Snapshot) error {
	table := tablewriter.NewWriter(out)
	table.Header("Date", "Total", string(password.TierStrong), string(password.TierModerate), string(password.TierWeak), "Violations")
	for _, day := range trend {
		if err := table.Append([]string{
			day.Date.Format(time.DateOnly),
			strconv.Itoa(day.Total),
			strconv.Itoa(day.Strong),
			strconv.Itoa(day.Moderate),
			strconv.Itoa(day.Weak),
			strconv.Itoa(day.Violations),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
