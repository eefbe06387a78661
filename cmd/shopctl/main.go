// Command shopctl is a terminal client for the storefront server.  The
// shopping cart lives in a local sqlite file so it survives between runs;
// the session cookie lives in memory and lasts for one invocation.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/online-storefront/internal/client/api"
	"github.com/iliyamo/online-storefront/internal/client/cart"
	"github.com/iliyamo/online-storefront/internal/client/session"
)

const usage = `usage: shopctl [-server URL] [-cart FILE] <command> [args]

commands:
  signup <name> <email>     register an account (password read from stdin)
  login <email>             log in (password read from stdin)
  whoami                    show the current session state
  products                  list the catalog
  product <id>              show one product
  cart add <id> [size]      fetch a product and add it to the local cart
  cart list                 show the local cart and its total
  cart set <id> <qty>       change a line's quantity (0 removes it)
  cart remove <id>          drop a line
  cart clear                empty the cart
`

func main() {
	server := flag.String("server", envOr("SHOP_SERVER", "http://localhost:4000"), "server base URL")
	cartPath := flag.String("cart", envOr("SHOP_CART", "shopcart.db"), "cart database file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, *server, *cartPath, args); err != nil {
		fmt.Fprintln(os.Stderr, "shopctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server, cartPath string, args []string) error {
	client, err := api.New(server)
	if err != nil {
		return err
	}
	sess := session.NewStore(client)

	switch args[0] {
	case "signup":
		if len(args) != 3 {
			return fmt.Errorf("usage: shopctl signup <name> <email>")
		}
		pw, err := readPassword()
		if err != nil {
			return err
		}
		u, err := sess.Signup(ctx, args[1], args[2], pw)
		if err != nil {
			return err
		}
		fmt.Printf("registered %s <%s>\n", u.Name, u.Email)
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl login <email>")
		}
		pw, err := readPassword()
		if err != nil {
			return err
		}
		u, err := sess.Login(ctx, args[1], pw)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s <%s>\n", u.Name, u.Email)
		return nil

	case "whoami":
		if err := sess.Initialize(ctx); err != nil {
			return err
		}
		state, u := sess.State()
		switch state {
		case session.StateAnonymous:
			fmt.Println("not logged in")
		default:
			fmt.Printf("%s <%s> (%s)\n", u.Name, u.Email, state)
		}
		return nil

	case "products":
		products, err := client.Products(ctx, false)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%d\t%-30s\t%.2f\t%s\n", p.ID, p.Title, p.Price, p.Category)
		}
		return nil

	case "product":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl product <id>")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		p, err := client.Product(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%.2f)\n%s\nstock: %d  sizes: %s\n",
			p.Title, p.Price, p.Description, p.Stock, strings.Join(p.Sizes, ", "))
		return nil

	case "cart":
		if len(args) < 2 {
			return fmt.Errorf("usage: shopctl cart <add|list|set|remove|clear>")
		}
		store, err := cart.Open(cartPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return runCart(ctx, client, store, args[1:])

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runCart(ctx context.Context, client *api.Client, store *cart.Store, args []string) error {
	switch args[0] {
	case "add":
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("usage: shopctl cart add <id> [size]")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		size := ""
		if len(args) == 3 {
			size = args[2]
		}
		p, err := client.Product(ctx, id)
		if err != nil {
			return err
		}
		if err := store.Add(ctx, p, size); err != nil {
			return err
		}
		fmt.Printf("added %s\n", p.Title)
		return nil

	case "list":
		items, err := store.Items(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("cart is empty")
			return nil
		}
		for _, it := range items {
			line := fmt.Sprintf("%d\t%-30s\t%d x %.2f", it.ProductID, it.Title, it.Quantity, it.Price)
			if it.Size != "" {
				line += "\tsize " + it.Size
			}
			fmt.Println(line)
		}
		total, err := store.Total(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total: %.2f\n", total)
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: shopctl cart set <id> <qty>")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		qty, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		return store.UpdateQuantity(ctx, id, qty)

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl cart remove <id>")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		return store.Remove(ctx, id)

	case "clear":
		return store.Clear(ctx)

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return pw, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
