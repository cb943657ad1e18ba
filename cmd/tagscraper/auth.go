package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tagscraper/pkg/auth"
	"tagscraper/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Danbooru credentials",
	Long: `Manage stored Danbooru credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables TAGSCRAPER_LOGIN and TAGSCRAPER_API_KEY (read only)`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [login]",
	Short: "Store a Danbooru login and API key",
	Example: `  tagscraper auth login
  tagscraper auth login my_account`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [login]",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials. Without an argument the only stored
account is removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List stored accounts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	auth.ShowAPIKeyGuide(ui.Output())

	var login string
	if len(args) > 0 {
		login = args[0]
	} else {
		fmt.Fprint(ui.Output(), "Danbooru login: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read login: %w", err)
		}
		login = strings.TrimSpace(input)
	}
	if login == "" {
		return fmt.Errorf("login is required")
	}

	if existing, _ := manager.Retrieve(login); existing != nil {
		fmt.Fprintf(ui.Output(), "Account '%s' already exists. Update the API key? (y/N): ", login)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Fprint(ui.Output(), "API key (hidden): ")
	apiKey, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	if err := manager.Store(&auth.Account{Login: login, APIKey: apiKey}); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.PrintSuccess("Credentials stored for " + login)
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Output())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var login string
	if len(args) > 0 {
		login = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil {
			return err
		}
		switch len(accounts) {
		case 0:
			ui.PrintWarning("No stored accounts")
			return nil
		case 1:
			login = accounts[0].Login
		default:
			return fmt.Errorf("%d accounts stored: name the one to remove", len(accounts))
		}
	}

	if err := manager.Delete(login); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}
	ui.PrintSuccess("Account removed: " + login)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "use 'tagscraper auth login' to add one")
		return nil
	}

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Fprintf(ui.Output(), "%d. %s\n", i+1, ui.Cyan(sanitized.Login))
		fmt.Fprintf(ui.Output(), "   API key: %s\n", sanitized.APIKey)
		if !sanitized.LastModified.IsZero() {
			fmt.Fprintf(ui.Output(), "   Last modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
