package main

import (
	"fmt"

	"github.com/KyleBrandon/pdfhtml/pkg/gauth"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Drive access",
	Long: `Auth prints a Google consent URL, reads the authorization code from stdin
and saves the resulting token to the token file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := credentialPaths()

		if _, err := gauth.Login(cmd.Context(), paths, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Token saved to", paths.Token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
