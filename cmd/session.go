package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/jetlist-session/internal/app"
	"github.com/oshokin/jetlist-session/internal/version"
)

//nolint:gochecknoglobals // Cobra commands are declared globally.
var (
	signupParams       app.SignupParams
	loginEmail         string
	loginPassword      string
	resetPasswordEmail string

	restoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "Restore the saved session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteRestoreCommand(cmd.Context(), appConfig)
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Follow sign-in and sign-out events until interrupted",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteWatchCommand(cmd.Context(), appConfig)
		},
	}

	signupCmd = &cobra.Command{
		Use:   "signup",
		Short: "Create an account and register it with the backend",
		Long: `Creates an email/password account, signs it in and registers
the user with the Jetlist backend.

If the registration fails, it is retried once. The account stays signed in either way.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteSignupCommand(cmd.Context(), appConfig, signupParams)
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in with an email and password",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteLoginCommand(cmd.Context(), appConfig, loginEmail, loginPassword)
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteLogoutCommand(cmd.Context(), appConfig)
		},
	}

	resetPasswordCmd = &cobra.Command{
		Use:   "reset-password",
		Short: "Send a password reset email",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteResetPasswordCommand(cmd.Context(), appConfig, resetPasswordEmail)
		},
	}

	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteWhoamiCommand(cmd.Context(), appConfig)
		},
	}

	displayNameCmd = &cobra.Command{
		Use:   "display-name <name>",
		Short: "Set the display name of the signed-in identity (an empty name removes it)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteDisplayNameCommand(cmd.Context(), appConfig, args[0])
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No configuration is needed to print the version.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	signupFlags := signupCmd.Flags()
	signupFlags.StringVar(&signupParams.FirstName, "first-name", "", "first name of the new user.")
	signupFlags.StringVar(&signupParams.LastName, "last-name", "", "last name of the new user.")
	signupFlags.StringVar(&signupParams.Email, "email", "", "email of the new account.")
	signupFlags.StringVar(&signupParams.Password, "password", "", "password of the new account.")
	markRequired(signupCmd, "first-name", "last-name", "email", "password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email.")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password.")
	markRequired(loginCmd, "email", "password")

	resetPasswordCmd.Flags().StringVar(&resetPasswordEmail, "email", "", "account email.")
	markRequired(resetPasswordCmd, "email")

	rootCmd.AddCommand(
		restoreCmd,
		watchCmd,
		signupCmd,
		loginCmd,
		logoutCmd,
		resetPasswordCmd,
		whoamiCmd,
		displayNameCmd,
		versionCmd,
	)
}

// markRequired marks flags of cmd as required, panicking on a typo in a flag name.
func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		cobra.CheckErr(cmd.MarkFlagRequired(name))
	}
}
