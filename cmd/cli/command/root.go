package command

// root.go defines the root command and the flags shared by every subcommand.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"quotehub/cmd/cli/authentication"
	"quotehub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3000"

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quotehub",
	Short: "quotehub - QuoteHub Command Line Interface",
	Long: `quotehub talks to the QuoteHub API. With it you can:
- Register and log in
- Get a random quote
- Like, unlike and rate quotes
- Search quotes and list the ones you liked

Use "quotehub [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err) // Print error to standard error
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Hint: run `quotehub auth login` to sign in again.")
		}
		os.Exit(1)
	}
}

func init() {
	defaultURL := defaultAPIURL
	if env := os.Getenv("QUOTEHUB_API"); env != "" {
		defaultURL = env
	}
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL (env QUOTEHUB_API)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(quoteCmd)
}

// GetAuthenticatedClient returns a client carrying the stored token.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		if errors.Is(err, authentication.ErrNotLoggedIn) {
			return nil, client.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	return c, nil
}

// getOptionalClient sends the stored token when there is one, so anonymous
// commands still see the caller's likes and ratings.
func getOptionalClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL)
	if creds, err := authentication.GetTokens(); err == nil {
		c.SetToken(creds.AccessToken)
	}
	return c
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
