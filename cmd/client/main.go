package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/client"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/logging"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
)

func main() {
	settings := client.LoadSettings()

	server := flag.String("server", settings.Server, "Server address (host:port)")
	name := flag.String("name", settings.Username, "Username to log in with")
	logLevel := flag.String("log-level", "warn", "Log level: "+logging.LevelNames())
	flag.Parse()

	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: "text",
		Output: os.Stderr,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "a username is required (-name)")
		os.Exit(1)
	}

	e := client.NewEngine()
	e.OnChat = func(line string) { fmt.Println(line) }
	e.OnRoster = func(entries []model.PresenceEntry) {
		parts := make([]string, 0, len(entries))
		for _, entry := range entries {
			parts = append(parts, fmt.Sprintf("%s (%s)", entry.Name, entry.Status))
		}
		fmt.Printf("* online: %s\n", strings.Join(parts, ", "))
	}
	e.OnStatusChange = func(who string, status model.Status) {
		fmt.Printf("* %s is now %s\n", who, status)
	}
	e.OnTyping = func(who string) {
		fmt.Printf("* %s is typing...\n", who)
	}
	e.OnImage = func(sender string, data []byte) {
		fmt.Printf("* %s sent an image (%d bytes)\n", sender, len(data))
	}
	e.OnFile = func(sender, filename string, data []byte) {
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			fmt.Printf("* %s sent %s but saving failed: %v\n", sender, filename, err)
			return
		}
		fmt.Printf("* %s sent %s (%d bytes, saved)\n", sender, filename, len(data))
	}
	e.OnVoice = func(sender string, data []byte) {
		fmt.Printf("* %s sent a voice clip (%d bytes)\n", sender, len(data))
	}
	e.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "! %v\n", err)
	}
	e.OnDisconnect = func(reason string) {
		fmt.Fprintf(os.Stderr, "disconnected: %s\n", reason)
		os.Exit(1)
	}

	if err := e.Connect(*server, *name); err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	settings.Server = *server
	settings.Username = *name
	if err := settings.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "! save settings: %v\n", err)
	}

	fmt.Println("connected. /msg <user> <text>, /status <value>, /image <path>, /file <path>, /quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runCommand(e, line); err != nil {
			if err == errQuit {
				return
			}
			fmt.Fprintf(os.Stderr, "! %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

// runCommand executes one input line: a /-command or a plain chat message.
func runCommand(e *client.Engine, line string) error {
	if !strings.HasPrefix(line, "/") {
		return e.SendChat(line)
	}

	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case "/quit":
		return errQuit
	case "/msg":
		target, text, ok := strings.Cut(rest, " ")
		if !ok || target == "" || text == "" {
			return fmt.Errorf("usage: /msg <user> <text>")
		}
		return e.SendPrivate(target, text)
	case "/status":
		return e.SetStatus(model.Status(rest))
	case "/image":
		if rest == "" {
			return fmt.Errorf("usage: /image <path>")
		}
		return e.SendImage(rest)
	case "/file":
		if rest == "" {
			return fmt.Errorf("usage: /file <path>")
		}
		return e.SendFile(rest)
	case "/typing":
		return e.SendTyping()
	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
}
