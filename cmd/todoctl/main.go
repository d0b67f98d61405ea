// Command todoctl is a small terminal client for a running
// premium-todolist server. It drives the same optimistic client the
// web UI uses: actions apply locally first and sync in the background.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/huhyoundo/premium-todolist/client"
	"github.com/huhyoundo/premium-todolist/client/rest"
	"github.com/huhyoundo/premium-todolist/client/store"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:3000", "server base URL")
		email     = flag.String("email", "", "account email")
		password  = flag.String("password", "", "account password")
		register  = flag.Bool("register", false, "register the account before logging in")
		date      = flag.String("date", "", "selected date (YYYY-MM-DD, default today)")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if flag.NArg() == 0 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api := rest.New(*serverURL)
	if *register {
		if err := api.Register(ctx, *email, *password, ""); err != nil {
			log.Fatalf("register failed: %v", err)
		}
	} else {
		if err := api.Login(ctx, *email, *password); err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	c := client.New(store.New(time.Now()), api, nil)
	if err := c.Resync(ctx); err != nil {
		log.Fatalf("resync failed: %v", err)
	}
	if *date != "" {
		selected, err := time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("invalid -date: %v", err)
		}
		c.SelectDate(selected)
	}

	if err := run(ctx, c, flag.Args()); err != nil {
		log.Fatal(err)
	}

	// Let background sync actions land, then show the server truth.
	c.Wait()
	if err := c.Resync(ctx); err != nil {
		log.Fatalf("resync failed: %v", err)
	}
	printVisible(c)
}

func run(ctx context.Context, c *client.Client, args []string) error {
	switch args[0] {
	case "list":
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("add requires a title")
		}
		_, err := c.Add(args[1])
		return err
	case "toggle":
		if len(args) < 2 {
			return fmt.Errorf("toggle requires a todo id")
		}
		c.Toggle(args[1])
		return nil
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("delete requires a todo id")
		}
		c.Delete(args[1])
		return nil
	default:
		usage()
		return nil
	}
}

func printVisible(c *client.Client) {
	todos := c.Visible()
	if len(todos) == 0 {
		fmt.Println("no todos for the selected date")
		return
	}
	for _, t := range todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s  (%s)\n", mark, t.Date.Format("2006-01-02"), t.Title, t.ID)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: todoctl -email E -password P [flags] <command>

commands:
  list            show todos visible on the selected date
  add <title>     create a todo on the selected date
  toggle <id>     flip a todo's completion
  delete <id>     remove a todo`)
	os.Exit(2)
}
