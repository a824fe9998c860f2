package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhtn/ragchat/internal/widget"
)

var (
	chatServerURL string
	chatTimeout   time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a running ragchat server from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServerURL, "server", "http://localhost:8000", "ragchat server base URL")
	chatCmd.Flags().DurationVar(&chatTimeout, "timeout", 30*time.Second, "per-question timeout")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	w := widget.New(widget.Config{EndpointBaseURL: chatServerURL, Timeout: chatTimeout})
	fmt.Println("Đặt câu hỏi về các tỉnh thành Việt Nam (Ctrl-D để thoát).")

	scanner := bufio.NewScanner(os.Stdin)
	shown := 0
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		if err := w.SubmitQuestion(cmd.Context(), scanner.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "chat: %v\n", err)
			continue
		}

		for _, msg := range w.Transcript()[shown:] {
			if msg.Sender == widget.SenderBot {
				fmt.Println(msg.Text)
			}
		}
		shown = len(w.Transcript())
	}
	return scanner.Err()
}
