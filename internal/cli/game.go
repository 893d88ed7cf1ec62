package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game session commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameWinnerCmd())
	cmd.AddCommand(newGameMessagesCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var player1, player2 int64
	var character string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player1_id":         player1,
				"player2_id":         player2,
				"character_to_guess": character,
			}

			var result Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&player1, "player1", 0, "First player's user id")
	cmd.Flags().Int64Var(&player2, "player2", 0, "Second player's user id")
	cmd.Flags().StringVar(&character, "character", "", "Character to guess")
	_ = cmd.MarkFlagRequired("player1")
	_ = cmd.MarkFlagRequired("player2")
	_ = cmd.MarkFlagRequired("character")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a game session by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameWinnerCmd() *cobra.Command {
	var winner int64

	cmd := &cobra.Command{
		Use:   "winner <id>",
		Short: "Record a game's winner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int64{"winner_id": winner}

			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/winner", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&winner, "winner", 0, "Winning player's user id")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}

func newGameMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <id>",
		Short: "List a game's chat transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Message
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/messages", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
