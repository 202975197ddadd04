package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docsign-client/internal/domain/entity"
)

var (
	loginEmail     string
	loginPassword  string
	signupUsername string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to the signing service. The session is kept in redis and reused
by later commands until it expires or you run logout.

Example:
  docsign login --email signer@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordOrPrompt(cmd)
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			sess, err := c.Auth.Login(ctx, loginEmail, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.UserID)
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordOrPrompt(cmd)
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			sess, err := c.Auth.Signup(ctx, signupUsername, loginEmail, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", sess.UserID)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			if err := c.Auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile of the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			profile, err := c.Auth.Me(ctx)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
		cmd.Flags().StringVar(&loginPassword, "password", "", "Password; read from stdin when omitted")
		cmd.MarkFlagRequired("email")
	}
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "Username (required)")
	signupCmd.MarkFlagRequired("username")
}

func passwordOrPrompt(cmd *cobra.Command) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	return readLine(cmd.InOrStdin())
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printProfile(w io.Writer, p *entity.Profile) {
	fmt.Fprintf(w, "User ID:  %s\n", p.UserID)
	fmt.Fprintf(w, "Username: %s\n", p.Username)
	fmt.Fprintf(w, "Email:    %s\n", p.Email)
	if p.FullName != "" {
		fmt.Fprintf(w, "Name:     %s\n", p.FullName)
	}
	if p.Phone != "" {
		fmt.Fprintf(w, "Phone:    %s\n", p.Phone)
	}
}
