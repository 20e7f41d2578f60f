package cmd

import (
	"fmt"

	"github.com/partstash/partstash/internal/utils"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the inventory service",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			utils.Log.Fatal("Please provide your username (-u flag)")
		}
		if password == "" {
			utils.Log.Fatal("Please provide your password (-p flag)")
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		user, err := client.SignIn(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s plan)\n", user.Username, user.PricingPlan)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		sess.Clear()
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account and its credit usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := newAPIClient()
		if err != nil {
			return err
		}
		user := sess.User()
		if user == nil {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s (%s)\n", user.Username, user.ID)

		access, err := client.GetUserAccess(cmd.Context())
		if err != nil {
			utils.Log.Warn("Could not fetch account access: ", err)
			return nil
		}
		fmt.Printf("Plan: %s  Credits: %d/%d\n", access.PricingPlan, access.CreditsUsed, access.CreditsLimit)
		if access.IsViewOnly {
			fmt.Println("This account is view-only")
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account (optionally as a sub-account)",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		confirm, _ := cmd.Flags().GetString("confirm")
		parentID, _ := cmd.Flags().GetString("parent-user-id")

		if username == "" || password == "" {
			utils.Log.Fatal("Username and password are required")
		}
		if password != confirm {
			utils.Log.Fatal("Password confirmation does not match")
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.Register(cmd.Context(), username, password, parentID); err != nil {
			return err
		}
		fmt.Println("Account created. Check your email for a verification code.")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <code>",
	Short: "Verify a pending account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.VerifyAccount(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Account verified")
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Request or complete a password reset",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		token, _ := cmd.Flags().GetString("token")
		password, _ := cmd.Flags().GetString("new-password")

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}

		// Without a token this requests the reset email; with one it
		// completes the flow.
		if token == "" {
			if username == "" {
				utils.Log.Fatal("Please provide your username (-u flag)")
			}
			if err := client.RequestPasswordReset(cmd.Context(), username); err != nil {
				return err
			}
			fmt.Println("Reset requested. Check your email for a token.")
			return nil
		}

		if password == "" {
			utils.Log.Fatal("Please provide the new password (--new-password flag)")
		}
		if err := client.UpdatePassword(cmd.Context(), token, password); err != nil {
			return fmt.Errorf("password reset failed (the token may be invalid or expired, request a new one with 'partstash reset-password -u <username>'): %w", err)
		}
		fmt.Println("Password updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(resetPasswordCmd)

	loginCmd.Flags().StringP("username", "u", "", "Account username")
	loginCmd.Flags().StringP("password", "p", "", "Account password")

	registerCmd.Flags().StringP("username", "u", "", "New account username")
	registerCmd.Flags().StringP("password", "p", "", "New account password")
	registerCmd.Flags().StringP("confirm", "", "", "Password confirmation")
	registerCmd.Flags().StringP("parent-user-id", "", "", "Create as a sub-account of this user")

	resetPasswordCmd.Flags().StringP("username", "u", "", "Account username (request step)")
	resetPasswordCmd.Flags().StringP("token", "t", "", "Reset token from the email (update step)")
	resetPasswordCmd.Flags().StringP("new-password", "", "", "New password (update step)")
}
