package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oliveiraenergia/oilsample/internal/adapters/sheets"
)

// clientSecretEnv holds the OAuth client JSON itself, as exported from the
// Google Cloud console.
const clientSecretEnv = "GOOGLE_CLIENT_SECRET"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize spreadsheet access and write token.json",
	Long: `Run the Google consent flow in the browser and save the resulting token.

The OAuth client comes from $GOOGLE_CLIENT_SECRET (JSON content) or from
--client-secret / OILSAMPLE_SHEETS_CLIENT_SECRET_FILE. The token is written to
OILSAMPLE_SHEETS_TOKEN_FILE (default token.json).`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

var clientSecretFile string

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().StringVar(&clientSecretFile, "client-secret", "", "OAuth client secret JSON file")
}

func clientSecret() ([]byte, error) {
	if v := os.Getenv(clientSecretEnv); v != "" {
		return []byte(v), nil
	}
	path := clientSecretFile
	if path == "" {
		path = cfg.Sheets.ClientSecretFile
	}
	if path == "" {
		return nil, fmt.Errorf("no OAuth client: set %s or pass --client-secret", clientSecretEnv)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret: %w", err)
	}
	return data, nil
}

func runAuth(cmd *cobra.Command, args []string) error {
	secret, err := clientSecret()
	if err != nil {
		return err
	}
	oauthCfg, err := sheets.ConsentConfig(secret)
	if err != nil {
		return err
	}
	return sheets.RunConsentFlow(cmd.Context(), oauthCfg, cfg.Sheets.TokenFile, cmd.OutOrStdout())
}
