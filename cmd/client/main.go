package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/RikitaRoy3/Chatly/internal/client"
	"github.com/RikitaRoy3/Chatly/internal/client/config"
	"github.com/RikitaRoy3/Chatly/internal/domain"
	"github.com/RikitaRoy3/Chatly/internal/logging"
)

var (
	email    string
	password string
	fullName string
	signup   bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chatly-client",
		Short: "Chatly CLI chat client",
		Run:   runClient,
	}

	cobra.OnInitialize(config.LoadConfig)

	rootCmd.Flags().StringVarP(&email, "email", "e", "", "account email (required)")
	rootCmd.Flags().StringVarP(&password, "password", "p", "", "account password (required)")
	rootCmd.Flags().StringVarP(&fullName, "name", "n", "", "full name (for --signup)")
	rootCmd.Flags().BoolVar(&signup, "signup", false, "create a new account instead of logging in")
	rootCmd.MarkFlagRequired("email")
	rootCmd.MarkFlagRequired("password")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) {
	logger := logging.New(false)
	defer logger.Sync()

	c := client.New(config.Cfg.Server.URL, logger)
	ctx := context.Background()

	var err error
	if signup {
		err = c.Signup(ctx, fullName, email, password)
	} else {
		err = c.Login(ctx, email, password)
	}
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}
	fmt.Printf("Logged in as %s <%s>\n", c.Viewer().FullName, c.Viewer().Email)

	c.OnEvent = func(evt client.Event) {
		printEvent(c, evt)
	}
	if err := c.Connect(); err != nil {
		log.Fatalf("Failed to open live connection: %v", err)
	}
	defer c.Close()

	if err := c.RefreshChats(ctx); err != nil {
		log.Printf("Could not load chats: %v", err)
	}
	printChats(c)

	handleStdin(c)
}

// printEvent renders a push after it was folded into the local state.
func printEvent(c *client.Client, evt client.Event) {
	timestamp := time.Now().Format("15:04:05")
	switch e := evt.(type) {
	case client.NewMessageEvent:
		if e.Message.SenderID == c.Viewer().ID.String() {
			return // own echo, already printed on send
		}
		body := e.Message.Text
		if body == "" {
			body = "[image]"
		}
		sender := e.Message.SenderID
		if p := c.SelectedPartner(); p != nil && p.ID.String() == sender {
			sender = p.FullName
		}
		fmt.Printf("\r[%s] %s: %s\n> ", timestamp, sender, body)
	case client.PresenceChangedEvent:
		// Quietly folded into the online set; /chats shows the markers.
	case client.DisconnectedEvent:
		fmt.Printf("\r[%s] Live connection lost. Your chats are kept; restart to reconnect.\n> ", timestamp)
	}
}

func printChats(c *client.Client) {
	chats := c.ChatList()
	if len(chats) == 0 {
		fmt.Println("No conversations yet. Use /open <user-id> to start one.")
		return
	}
	for i, entry := range chats {
		marker := " "
		if c.IsOnline(entry.User.ID.String()) {
			marker = "*"
		}
		name := entry.User.FullName
		if name == "" {
			name = entry.User.ID.String()
		}
		fmt.Printf("%2d %s %s (last activity %s)\n", i+1, marker, name, entry.LastActivityAt.Format("Jan 2 15:04"))
	}
}

// handleStdin reads terminal input and dispatches commands until EOF.
func handleStdin(c *client.Client) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Commands: /chats, /open <n|user-id>, /send <text>, /online, /quit")
	fmt.Print("> ")

	for {
		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			fmt.Print("> ")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		switch {
		case input == "/quit":
			cancel()
			return
		case input == "/chats":
			if err := c.RefreshChats(ctx); err != nil {
				fmt.Printf("[ERROR] %v\n", err)
			}
			printChats(c)
		case input == "/online":
			for _, id := range c.OnlineUserIDs() {
				fmt.Println(id)
			}
		case strings.HasPrefix(input, "/open "):
			openConversation(ctx, c, strings.TrimSpace(strings.TrimPrefix(input, "/open ")))
		case strings.HasPrefix(input, "/send "):
			sendMessage(ctx, c, strings.TrimPrefix(input, "/send "))
		default:
			fmt.Println("[ERROR] Unknown command.")
		}
		cancel()
		fmt.Print("> ")
	}
}

// openConversation resolves the argument to a partner, either a list index
// or a user ID for a first-ever contact, and loads the pair history.
func openConversation(ctx context.Context, c *client.Client, arg string) {
	var partner *domain.User
	if n, err := strconv.Atoi(arg); err == nil {
		chats := c.ChatList()
		if n < 1 || n > len(chats) {
			fmt.Println("[ERROR] No such chat.")
			return
		}
		partner = &chats[n-1].User
	} else {
		id, err := uuid.Parse(arg)
		if err != nil {
			fmt.Println("[ERROR] Expected a chat number or a user id.")
			return
		}
		partner, err = c.LookupUser(ctx, id)
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			return
		}
	}

	if err := c.OpenConversation(ctx, *partner); err != nil {
		fmt.Printf("[ERROR] Could not load history: %v\n", err)
		return
	}
	fmt.Printf("--- %s ---\n", partner.FullName)
	viewerID := c.Viewer().ID.String()
	for _, m := range c.Messages() {
		who := partner.FullName
		if m.SenderID == viewerID {
			who = "Me"
		}
		body := m.Text
		if body == "" {
			body = "[image]"
		}
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04:05"), who, body)
	}
}

func sendMessage(ctx context.Context, c *client.Client, text string) {
	partner := c.SelectedPartner()
	if partner == nil {
		fmt.Println("[ERROR] Open a conversation first with /open.")
		return
	}
	msg, err := c.SendMessage(ctx, partner.ID, strings.TrimSpace(text), "")
	if err != nil {
		// The compose content is the caller's to retain; nothing local
		// changed, so retrying is a clean repeat.
		fmt.Printf("[ERROR] Send failed: %v\n", err)
		return
	}
	fmt.Printf("[%s] Me -> %s: %s\n", msg.CreatedAt.Local().Format("15:04:05"), partner.FullName, msg.Text)
}
