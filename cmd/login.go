package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/clauselens/clauselens/internal/state"
)

var loginRegister bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the analysis backend",
	Long: `Prompts for your email and password, signs in to the analysis
backend, and stores the session token locally. The web frontend and the
MCP server reuse the stored session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		client, err := buildClient(cmd.Context(), cfg, database)
		if err != nil {
			return err
		}

		email, err := askText("Email")
		if err != nil {
			return fmt.Errorf("email prompt: %w", err)
		}
		password, err := askPassword("Password")
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}

		ctx := cmd.Context()
		if loginRegister {
			if _, err := client.Register(ctx, email, password); err != nil {
				return fmt.Errorf("creating account: %w", err)
			}
			fmt.Println("Account created.")
		}

		token, err := client.Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("signing in: %w", err)
		}

		store := state.NewDBStore(database)
		if err := store.Set(ctx, state.KeyToken, token.AccessToken); err != nil {
			return fmt.Errorf("storing session: %w", err)
		}

		fmt.Println("Signed in.")
		return nil
	},
}

func askText(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	return p.Run()
}

func askPassword(label string) (string, error) {
	p := promptui.Prompt{Label: label, Mask: '*'}
	return p.Run()
}

func init() {
	loginCmd.Flags().BoolVar(&loginRegister, "register", false, "create a new account before signing in")
	rootCmd.AddCommand(loginCmd)
}
