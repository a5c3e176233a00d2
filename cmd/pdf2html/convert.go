package main

import (
	"fmt"

	"github.com/KyleBrandon/pdfhtml/pkg/convert"
	"github.com/KyleBrandon/pdfhtml/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a PDF to self-contained HTML",
	Long: `Convert uploads the PDF to Google Drive as a Google Doc, exports the Doc
as HTML and inlines every image. The temporary Doc is deleted afterwards.

The HTML is written to stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath := args[0]
		if !utils.Exists(pdfPath) {
			return convert.ErrNoFile
		}

		result, err := convert.ConvertFile(cmd.Context(), pdfPath, conversionConfig())
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

		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d pages, %d images inlined, %d skipped)\n",
			out, result.Pages, result.ImagesInlined, result.ImagesSkipped)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "write the HTML to this file")
	convertCmd.Flags().String("folder-id", "", "Google Drive folder to upload into")
	viper.BindPFlag("folder_id", convertCmd.Flags().Lookup("folder-id"))

	rootCmd.AddCommand(convertCmd)
}
