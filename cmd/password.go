package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/spf13/cobra"
)

var errPasswordInput = errors.New("provide exactly one of --password or --password-stdin")

type passwordFlags struct {
	username string
	password string
	stdin    bool
}

var passwordCheckFlags passwordFlags
var passwordEvaluateFlags passwordFlags

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Evaluate password strength and store acceptable credentials",
}

var passwordCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a password, store it when not Weak, and save the result as the latest report",
	Long: `Evaluate a password against the five strength rules (length, uppercase,
lowercase, digit, special character) and save a password report as the latest
report. Moderate and Strong passwords are appended to the credential store.

WARNING: credentials are stored in PLAINTEXT in the data directory. This is a
demonstration tool; never submit a real password. Prefer --password-stdin so the
password does not land in shell history.`,
	Example: `  secdash password check --username alice --password 'Abcdef1!'
  printf 'Abcdef1!' | secdash password check --username alice --password-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pwd, err := readPasswordInput(cmd, passwordCheckFlags)
		if err != nil {
			return err
		}
		return runPasswordCheck(cmd, passwordCheckFlags.username, pwd)
	},
}

var passwordEvaluateCmd = &cobra.Command{
	Use:   "evaluate [password]",
	Short: "Show the strength of a password without storing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := passwordEvaluateFlags
		if len(args) == 1 {
			if flags.stdin || flags.password != "" {
				return errPasswordInput
			}
			flags.password = args[0]
		}
		pwd, err := readPasswordInput(cmd, flags)
		if err != nil {
			return err
		}
		writeAssessment(cmd.OutOrStdout(), password.Evaluate(pwd))
		return nil
	},
}

func init() {
	passwordCheckCmd.Flags().StringVarP(&passwordCheckFlags.username, "username", "u", "", "username stored alongside the password")
	passwordCheckCmd.Flags().StringVarP(&passwordCheckFlags.password, "password", "p", "", "password to evaluate (stored in plaintext when accepted)")
	passwordCheckCmd.Flags().BoolVar(&passwordCheckFlags.stdin, "password-stdin", false, "read the password from stdin")
	_ = passwordCheckCmd.MarkFlagRequired("username")

	passwordEvaluateCmd.Flags().StringVarP(&passwordEvaluateFlags.password, "password", "p", "", "password to evaluate")
	passwordEvaluateCmd.Flags().BoolVar(&passwordEvaluateFlags.stdin, "password-stdin", false, "read the password from stdin")

	passwordCmd.AddCommand(passwordCheckCmd, passwordEvaluateCmd)
	rootCmd.AddCommand(passwordCmd)
}

// readPasswordInput returns the flag value or the first line of stdin.
// An empty password is valid input.
func readPasswordInput(cmd *cobra.Command, flags passwordFlags) (string, error) {
	passwordSet := flags.password != "" || cmd.Flags().Changed("password")
	if passwordSet && flags.stdin {
		return "", errPasswordInput
	}
	if !flags.stdin {
		return flags.password, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runPasswordCheck(cmd *cobra.Command, username, pwd string) error {
	appCtx := getAppContext(cmd)
	if appCtx == nil {
		return fmt.Errorf("application context not initialized")
	}
	services, err := appCtx.Container()
	if err != nil {
		return err
	}

	start := time.Now()
	sub, err := services.PasswordService.Submit(commandContext(cmd), username, pwd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeAssessment(out, sub.Assessment)

	switch {
	case sub.Stored:
		fmt.Fprintf(out, "%s credential stored for %q\n", colorSuccess("✓"), username)
	default:
		fmt.Fprintf(out, "%s credential not stored: Weak passwords are rejected\n", colorError("✗"))
	}
	if sub.Reused {
		fmt.Fprintf(out, "%s this password is already in use by another stored credential\n", colorWarn("!"))
	}

	maybeRecordTelemetry(appCtx, telemetryRecord{
		Command:         "password check",
		Subject:         username,
		Outcome:         string(sub.Assessment.Tier),
		Stored:          sub.Stored,
		DurationSeconds: time.Since(start).Seconds(),
	})
	return nil
}

func writeAssessment(out io.Writer, a password.Assessment) {
	fmt.Fprintf(out, "Password Strength: %s (%d/%d rules)\n", formatTierWithColor(a.Tier), a.Score, len(password.Rules()))
	for _, v := range a.Violations {
		fmt.Fprintf(out, "  - %s\n", v)
	}
}
