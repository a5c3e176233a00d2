package main

import (
	"fmt"

	"github.com/KyleBrandon/pdfhtml/pkg/inline"
	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"github.com/spf13/cobra"
)

var inlineCmd = &cobra.Command{
	Use:   "inline <file.html>",
	Short: "Embed the images of an HTML file as data URIs",
	Long: `Inline fetches every <img> source in an HTML file and replaces it with a
base64 data URI. Images that cannot be fetched keep their original source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := utils.ReadFile(args[0])
		if err != nil {
			return err
		}

		result, err := inline.New(inline.WithLogger(logger)).Inline(cmd.Context(), string(content))
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.HTML)
			return nil
		}

		if err := utils.WriteFile(out, []byte(result.HTML), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d images inlined, %d skipped)\n", out, result.Inlined, result.Skipped)
		return nil
	},
}

func init() {
	inlineCmd.Flags().StringP("output", "o", "", "write the HTML to this file")

	rootCmd.AddCommand(inlineCmd)
}
