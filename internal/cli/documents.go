package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/usecase"
)

var (
	downloadOut string
	deleteYes   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			docs, err := c.Lifecycle.Refresh(ctx)
			if err != nil {
				return err
			}
			printDocuments(cmd.OutOrStdout(), docs)
			return nil
		})
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a PDF document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			docs, err := c.Lifecycle.Upload(ctx, filepath.Base(args[0]), content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n\n", filepath.Base(args[0]))
			printDocuments(cmd.OutOrStdout(), docs)
			return nil
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Save a document to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			content, err := c.Lifecycle.Download(ctx, args[0])
			if err != nil {
				return err
			}

			out := downloadOut
			if out == "" {
				out = content.Filename
			}
			if out == "" {
				out = "document-" + args[0] + ".pdf"
			}
			if err := os.WriteFile(out, content.Bytes, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, content.Size())
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document",
	Long: `Delete a document from the signing service. This cannot be undone; you
are asked to confirm unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			// the list gives the prompt a file name
			if _, err := c.Lifecycle.Refresh(ctx); err != nil {
				return err
			}

			confirm := promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
			if deleteYes {
				confirm = func(context.Context, string) bool { return true }
			}

			message, err := c.Lifecycle.Delete(ctx, args[0], confirm)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd, uploadCmd, downloadCmd, deleteCmd)

	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "Output path (default: the document's file name)")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}

// promptConfirm asks on out and accepts y or yes from in
func promptConfirm(in io.Reader, out io.Writer) usecase.ConfirmFunc {
	return func(_ context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		answer, err := readLine(in)
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

func printDocuments(w io.Writer, docs []entity.DocumentSummary) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tSTATUS\tCREATED")
	for _, d := range docs {
		created := "-"
		if !d.CreatedAt.IsZero() {
			created = d.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.DisplayName, d.Format, d.Status, created)
	}
	tw.Flush()
}
