package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/humanbelnik/kinoswap/duo/internal/client"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

type console struct {
	api     *client.Client
	scanner *bufio.Scanner

	sessionID model.SessionID
	role      model.Role
	sub       *client.Subscription
}

func main() {
	addr := flag.String("addr", "http://localhost:8080/api/v1", "duo API base URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &console{
		api:     client.New(*addr),
		scanner: bufio.NewScanner(os.Stdin),
	}
	defer c.close()

	for {
		fmt.Println("\n=== Duo Console Client ===")
		if c.sessionID != "" {
			fmt.Printf("Session %s as %s\n", c.sessionID, c.role)
		}
		fmt.Println("1. Create session")
		fmt.Println("2. Join by share link")
		fmt.Println("3. Swipe")
		fmt.Println("4. Show matches")
		fmt.Println("0. Exit")
		fmt.Print("Choose: ")

		input, ok := c.read()
		if !ok {
			return
		}

		var err error
		switch input {
		case "1":
			err = c.create(ctx)
		case "2":
			err = c.join(ctx)
		case "3":
			err = c.swipe(ctx)
		case "4":
			err = c.showMatches(ctx)
		case "0":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown choice")
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func (c *console) read() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *console) create(ctx context.Context) error {
	fmt.Print("Services, comma separated (empty for all): ")
	input, ok := c.read()
	if !ok {
		return fmt.Errorf("failed to read input")
	}

	var services []string
	for _, s := range strings.Split(input, ",") {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}

	inv, err := c.api.CreateSession(ctx, services...)
	if err != nil {
		return err
	}
	fmt.Printf("Session created: %s\n", inv.SessionID)
	fmt.Printf("Send this link to your partner: %s\n", inv.ShareLink)

	return c.enter(ctx, inv.SessionID, inv.Role)
}

func (c *console) join(ctx context.Context) error {
	fmt.Print("Share link: ")
	input, ok := c.read()
	if !ok {
		return fmt.Errorf("failed to read input")
	}

	id, role, err := client.ParseShareLink(input)
	if err != nil {
		return err
	}
	return c.enter(ctx, id, role)
}

func (c *console) enter(ctx context.Context, id model.SessionID, role model.Role) error {
	c.close()

	sub, err := c.api.Watch(ctx, id)
	if err != nil {
		return err
	}
	c.sessionID, c.role, c.sub = id, role, sub

	go func() {
		for event := range sub.Events() {
			fmt.Printf("\n* Matches updated: %s\n", titles(event.Payload))
		}
	}()
	fmt.Printf("Joined as %s, listening for matches\n", role)
	return nil
}

func (c *console) swipe(ctx context.Context) error {
	if c.sessionID == "" {
		return fmt.Errorf("create or join a session first")
	}

	for {
		candidate, ok, err := c.api.Next(ctx, c.sessionID, c.role)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No films left. Check your matches!")
			return nil
		}

		fmt.Printf("\n%s\n", candidate.Title)
		if candidate.Poster != "" {
			fmt.Printf("   Poster: %s\n", candidate.Poster)
		}
		if candidate.IMDbID != "" {
			fmt.Printf("   IMDb: https://www.imdb.com/title/%s/\n", candidate.IMDbID)
		}
		fmt.Printf("   On: %s\n", services(candidate.Availability))
		fmt.Print("Like? [y/n, q to stop]: ")

		input, ok := c.read()
		if !ok || input == "q" {
			return nil
		}

		var liked bool
		switch strings.ToLower(input) {
		case "y", "yes":
			liked = true
		case "n", "no":
		default:
			fmt.Println("Answer y or n")
			continue
		}

		if err := c.api.Vote(ctx, c.sessionID, c.role, candidate.ID, liked); err != nil {
			return err
		}
	}
}

func (c *console) showMatches(ctx context.Context) error {
	if c.sessionID == "" {
		return fmt.Errorf("create or join a session first")
	}

	matches, err := c.api.Matches(ctx, c.sessionID)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No matches yet")
		return nil
	}
	for i, m := range matches {
		fmt.Printf("%d. %s (%s)\n", i+1, m.Title, services(m.Availability))
	}
	return nil
}

func (c *console) close() {
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
	}
}

func titles(matches []model.Candidate) string {
	if len(matches) == 0 {
		return "none"
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Title)
	}
	return strings.Join(out, ", ")
}

func services(a model.Availability) string {
	out := make([]string, 0, len(a))
	for src, ok := range a {
		if ok {
			out = append(out, string(src))
		}
	}
	if len(out) == 0 {
		return "nowhere"
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
