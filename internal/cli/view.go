package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
)

var (
	renderPage  int
	renderScale float64
	renderOut   string

	signPage  int
	signScale float64
	signX     float64
	signY     float64

	verifyCertPath string
	verifyServer   bool

	certPrivate bool
)

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render a page of a document to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			view, err := c.Lifecycle.Preview(ctx, args[0])
			if err != nil {
				return err
			}
			defer c.Lifecycle.Back()

			if view.RenderError != "" {
				return errors.New(view.RenderError)
			}

			bmp, err := c.Lifecycle.RenderPage(ctx, renderPage, renderScale)
			if err != nil {
				return err
			}
			if bmp == nil {
				return errors.New("render was superseded")
			}

			out := renderOut
			if out == "" {
				out = fmt.Sprintf("document-%s-page-%d.png", args[0], bmp.Page)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()

			if err := bmp.EncodePNG(f); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d at %.0f%% written to %s (%dx%d)\n",
				bmp.Page, view.TotalPages, bmp.Scale*100, out, bmp.Width, bmp.Height)
			return nil
		})
	},
}

var signCmd = &cobra.Command{
	Use:   "sign <id>",
	Short: "Sign a document at a position",
	Long: `Sign a document. The position is given in pixels of the page rendered at
--scale, the same coordinates "render" produces, so a point picked on a
rendered PNG can be passed as is.

Example:
  docsign sign 7 --page 1 --x 120 --y 340`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			view, err := c.Lifecycle.BeginSigning(ctx, args[0])
			if err != nil {
				return err
			}
			defer c.Lifecycle.Back()

			if view.RenderError != "" {
				return errors.New(view.RenderError)
			}
			if _, err := c.Lifecycle.RenderPage(ctx, signPage, signScale); err != nil {
				return err
			}

			anchor, err := c.Lifecycle.SelectPoint(signX, signY, 0, 0)
			if err != nil {
				return err
			}
			c.Logger.Info("Signing from the command line",
				zap.String("document_id", args[0]),
				zap.Int("page", anchor.PageIndex),
				zap.Float64("x", anchor.X),
				zap.Float64("y", anchor.Y),
			)

			result, err := c.Lifecycle.Sign(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Signed %s on page %d at (%.1f, %.1f)\n", result.Filename, anchor.PageIndex, anchor.X, anchor.Y)
			fmt.Fprintf(w, "Signature ID: %s\n", result.SignatureID)
			if !result.SignedAt.IsZero() {
				fmt.Fprintf(w, "Signed at:    %s\n", result.SignedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Verify the signature of a document",
	Long: `Verify a document against a certificate, either read from a file with
--cert or fetched from the signing service with --server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var fileCert entity.CertificateMaterial
		if verifyCertPath != "" {
			raw, err := os.ReadFile(verifyCertPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", verifyCertPath, err)
			}
			fileCert = entity.CertificateMaterial(raw)
		}

		return withClient(cmd, func(ctx context.Context, c *client) error {
			if _, err := c.Lifecycle.BeginVerifying(ctx, args[0]); err != nil {
				return err
			}
			defer c.Lifecycle.Back()

			switch {
			case verifyServer:
				if _, err := c.Lifecycle.FetchServerCertificate(ctx); err != nil {
					return err
				}
			case verifyCertPath != "":
				if err := c.Lifecycle.SetCertificate(fileCert, entity.CertificateFromFile); err != nil {
					return err
				}
			}

			result, err := c.Lifecycle.Verify(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case !result.Success:
				return fmt.Errorf("verification failed: %s", result.Message)
			case result.IsValid:
				fmt.Fprintln(w, "Signature is valid")
			default:
				fmt.Fprintln(w, "Signature is NOT valid")
			}
			if result.VerificationTime != nil {
				fmt.Fprintf(w, "Checked at: %s\n", result.VerificationTime.Local().Format("2006-01-02 15:04:05"))
			}
			if !result.IsValid {
				return errInvalidSignature
			}
			return nil
		})
	},
}

var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Print your public certificate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			if certPrivate {
				key, err := c.Keys.PrivateKey(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), key)
				return nil
			}

			material, err := c.Keys.PublicCertificate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(material))
			return nil
		})
	},
}

var errInvalidSignature = errors.New("signature is not valid")

func init() {
	rootCmd.AddCommand(renderCmd, signCmd, verifyCmd, certCmd)

	renderCmd.Flags().IntVar(&renderPage, "page", 1, "Page number, starting at 1")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 1.0, "Zoom factor, clamped to the configured range")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output PNG path")

	signCmd.Flags().IntVar(&signPage, "page", 1, "Page to sign, starting at 1")
	signCmd.Flags().Float64Var(&signScale, "scale", 1.0, "Zoom factor the coordinates were taken at")
	signCmd.Flags().Float64Var(&signX, "x", 0, "Horizontal position in pixels (required)")
	signCmd.Flags().Float64Var(&signY, "y", 0, "Vertical position in pixels (required)")
	signCmd.MarkFlagRequired("x")
	signCmd.MarkFlagRequired("y")

	verifyCmd.Flags().StringVar(&verifyCertPath, "cert", "", "Certificate file")
	verifyCmd.Flags().BoolVar(&verifyServer, "server", false, "Use the certificate stored on the signing service")
	verifyCmd.MarkFlagsMutuallyExclusive("cert", "server")

	certCmd.Flags().BoolVar(&certPrivate, "private", false, "Print the private key instead")
}
