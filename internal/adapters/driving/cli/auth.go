package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

const tokenKey = "github.token"

var authToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub authentication",
	Long: `Store or remove the GitHub Personal Access Token used to read private
repositories and their uploaded images.

DOCKET_GITHUB_TOKEN, when set, takes precedence over the stored token.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub Personal Access Token",
	Long: `Store a GitHub Personal Access Token. Without --token the token is
read from the terminal without echo.

Examples:
  docket auth login
  docket auth login --token ghp_xxx`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a token is available",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "token to store (prompted when omitted)")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	token := strings.TrimSpace(authToken)
	if token == "" {
		cmd.Print("GitHub token: ")
		var err error
		token, err = readToken(cmd)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
	}
	if token == "" {
		return errors.New("no token given")
	}

	if err := settingsService.Set(tokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	cmd.Println("Token saved.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(tokenKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	cmd.Println("Token removed.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if tokenProvider == nil || !tokenProvider.IsAuthenticated() {
		cmd.Println("Not authenticated: public repositories only.")
		return nil
	}

	switch tokenProvider.AuthMethod() {
	case domain.AuthMethodPAT:
		cmd.Println("Authenticated with a personal access token.")
	default:
		cmd.Printf("Authenticated (%s).\n", tokenProvider.AuthMethod())
	}
	return nil
}

// readToken reads a line without echo from a terminal, or a plain line
// otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
