package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"groupmod/backend/internal/config"
	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/moderation"
	"groupmod/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [flags]

Commands:
  add-room <token>           Create a room
  delete-room <token>        Delete a room and all of its content
  list-rooms                 List rooms (use -v for details)
  add-moderators <id>...     Add moderators/admins to rooms or globally
  delete-moderators <id>...  Remove moderators/admins from rooms or globally
  list-global-mods           List global moderators and admins
  ban <id>                   Ban a user server-wide
  unban <id>                 Lift a server-wide ban
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	mod := moderation.NewService(s)
	actor := moderation.SystemActor{}

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-room":
		fs := flag.NewFlagSet("add-room", flag.ExitOnError)
		name := fs.String("name", "", "room name (defaults to the token)")
		description := fs.String("description", "", "room description")
		fs.Parse(os.Args[2:])
		if fs.NArg() != 1 {
			fmt.Println("Usage: admin add-room <token> [--name NAME] [--description DESC]")
			os.Exit(1)
		}
		token, err := identity.ParseRoomToken(fs.Arg(0))
		if err != nil {
			fmt.Println("Error: room tokens may only contain a-z, A-Z, 0-9, _, and - characters")
			os.Exit(1)
		}
		room, err := s.CreateRoom(token, *name, *description, actor.ActorID())
		if err != nil {
			log.Fatalf("Error creating room: %v", err)
		}
		fmt.Printf("Created room %s (%s)\n", room.Token, room.Name)

	case "delete-room":
		fs := flag.NewFlagSet("delete-room", flag.ExitOnError)
		yes := fs.Bool("yes", false, "skip the confirmation prompt")
		fs.Parse(os.Args[2:])
		if fs.NArg() != 1 {
			fmt.Println("Usage: admin delete-room <token> [--yes]")
			os.Exit(1)
		}
		token := fs.Arg(0)
		if _, err := s.GetRoomByToken(token); err != nil {
			log.Fatalf("Error: %v", err)
		}
		if !*yes && !confirm(fmt.Sprintf("Delete room %s and all of its messages and attachments?", token)) {
			fmt.Println("Aborted.")
			os.Exit(1)
		}
		if err := s.DeleteRoom(token, actor.ActorID()); err != nil {
			log.Fatalf("Error deleting room: %v", err)
		}
		fmt.Printf("Room %s deleted.\n", token)

	case "list-rooms":
		fs := flag.NewFlagSet("list-rooms", flag.ExitOnError)
		verbose := fs.Bool("v", false, "print stats and moderators per room")
		fs.Parse(os.Args[2:])
		rooms, err := s.ListRooms()
		if err != nil {
			log.Fatalf("Error listing rooms: %v", err)
		}
		if len(rooms) == 0 {
			fmt.Println("No rooms.")
			return
		}
		for _, room := range rooms {
			fmt.Printf("%s: %s\n", room.Token, room.Name)
			if !*verbose {
				continue
			}
			if room.Description != "" {
				fmt.Printf("    %s\n", room.Description)
			}
			stats, err := s.RoomStats(room.Token)
			if err != nil {
				log.Fatalf("Error loading stats for %s: %v", room.Token, err)
			}
			fmt.Printf("    Messages: %d (%.1f MB)\n", stats.MessageCount, float64(stats.MessageBytes)/1_000_000)
			fmt.Printf("    Attachments: %d (%.1f MB)\n", stats.AttachmentCount, float64(stats.AttachmentBytes)/1_000_000)
			for _, w := range stats.ActiveUsers {
				fmt.Printf("    Active users, last %d days: %d\n", int(w.Window/(24*time.Hour)), w.Count)
			}
			mods, err := s.ListRoomModerators(room.Token)
			if err != nil {
				log.Fatalf("Error loading moderators for %s: %v", room.Token, err)
			}
			fmt.Printf("    Admins: %d (%d hidden), moderators: %d (%d hidden)\n",
				mods.TotalAdmins(), len(mods.HiddenAdmins),
				mods.TotalModerators(), len(mods.HiddenModerators))
		}

	case "add-moderators":
		fs := flag.NewFlagSet("add-moderators", flag.ExitOnError)
		rooms := fs.String("rooms", "", "comma-separated room tokens, or '+' for global, or '*' for all rooms")
		admin := fs.Bool("admin", false, "grant admin instead of moderator")
		visible := fs.Bool("visible", false, "make the role publicly visible")
		hidden := fs.Bool("hidden", false, "hide the role from room listings")
		fs.Parse(os.Args[2:])
		if fs.NArg() == 0 || *rooms == "" {
			fmt.Println("Usage: admin add-moderators <session_id>... --rooms TOKENS [--admin] [--visible|--hidden]")
			os.Exit(1)
		}
		if *visible && *hidden {
			fmt.Println("Error: --visible and --hidden are mutually exclusive")
			os.Exit(1)
		}
		vis := moderation.VisibilityDefault
		if *visible {
			vis = moderation.VisibilityVisible
		} else if *hidden {
			vis = moderation.VisibilityHidden
		}
		report, err := mod.AddRole(fs.Args(), splitRooms(*rooms), *admin, vis, actor)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		printReport(report)

	case "delete-moderators":
		fs := flag.NewFlagSet("delete-moderators", flag.ExitOnError)
		rooms := fs.String("rooms", "", "comma-separated room tokens, or '+' for global, or '*' for all rooms")
		fs.Parse(os.Args[2:])
		if fs.NArg() == 0 || *rooms == "" {
			fmt.Println("Usage: admin delete-moderators <session_id>... --rooms TOKENS")
			os.Exit(1)
		}
		report, err := mod.RemoveRole(fs.Args(), splitRooms(*rooms), actor)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		printReport(report)

	case "list-global-mods":
		mods, err := s.ListGlobalModerators()
		if err != nil {
			log.Fatalf("Error listing global moderators: %v", err)
		}
		if mods.Empty() {
			fmt.Println("No global moderators.")
			return
		}
		for _, id := range mods.Admins {
			fmt.Printf("%s (admin)\n", id)
		}
		for _, id := range mods.HiddenAdmins {
			fmt.Printf("%s (hidden admin)\n", id)
		}
		for _, id := range mods.Moderators {
			fmt.Printf("%s (moderator)\n", id)
		}
		for _, id := range mods.HiddenModerators {
			fmt.Printf("%s (hidden moderator)\n", id)
		}

	case "ban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin ban <session_id>")
			os.Exit(1)
		}
		id, err := mod.Ban(os.Args[2], actor)
		if err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %s has been banned.\n", id)

	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <session_id>")
			os.Exit(1)
		}
		id, err := mod.Unban(os.Args[2], actor)
		if err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %s has been unbanned.\n", id)

	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

// splitRooms turns the --rooms value into a scope specifier. The sentinels
// "+" and "*" pass through as-is for the resolver to interpret.
func splitRooms(spec string) []string {
	parts := strings.Split(spec, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func printReport(report *moderation.Report) {
	for _, res := range report.Results {
		target := "globally"
		if res.RoomToken != "" {
			target = "in " + res.RoomToken
		}
		switch res.Outcome {
		case moderation.OutcomeApplied:
			fmt.Printf("%s: applied %s\n", res.SessionID, target)
		case moderation.OutcomeNoOp:
			fmt.Printf("%s: no role held %s, nothing to do\n", res.SessionID, target)
		default:
			fmt.Printf("%s: FAILED %s: %s\n", res.SessionID, target, res.Detail)
		}
	}
	if failed := report.Failed(); len(failed) > 0 {
		fmt.Printf("%d of %d changes failed.\n", len(failed), len(report.Results))
		os.Exit(1)
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
