// Package ui renders the stores' state as terminal output: the item
// grid, the cart with per-supermarket totals, the saved-carts list and
// the category tree. Rendering is pure formatting over whatever state
// the stores currently hold.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

const priceUnavailable = "price unavailable"

// Renderer writes the views to a single output stream.
type Renderer struct {
	out io.Writer
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Banner prints a visible error banner. The application stays
// interactive; the banner only reports what went wrong.
func (r *Renderer) Banner(message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(r.out, "!! %s\n", message)
}

// StatusLine prints the navigation-bar equivalent: who is logged in and
// which cart is active.
func (r *Renderer) StatusLine(usr models.User, loggedIn bool, activeCartID string) {
	who := "not logged in"
	if loggedIn {
		who = fmt.Sprintf("%s <%s>", usr.Name, usr.Email)
	}
	cart := "no active cart"
	if activeCartID != "" {
		cart = "cart " + activeCartID
	}
	fmt.Fprintf(r.out, "[grocart] %s | %s\n", who, cart)
}

func sortedChains(prices map[string]float64) []string {
	chains := make([]string, 0, len(prices))
	for chain := range prices {
		chains = append(chains, chain)
	}
	sort.Strings(chains)

	return chains
}

// ItemTable prints the item grid with per-chain prices.
func (r *Renderer) ItemTable(items []models.Item) {
	if len(items) == 0 {
		fmt.Fprintln(r.out, "no items")
		return
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICES")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, formatPrices(item))
	}
	w.Flush()
}

func formatPrices(item models.Item) string {
	if !item.HasPrices() {
		return priceUnavailable
	}

	parts := make([]string, 0, len(item.Prices))
	for _, chain := range sortedChains(item.Prices) {
		parts = append(parts, fmt.Sprintf("%s %.2f", chain, item.Prices[chain]))
	}

	return strings.Join(parts, ", ")
}

// ItemDetail prints the item-modal equivalent: full description, rating
// and the per-chain price list.
func (r *Renderer) ItemDetail(item models.Item) {
	fmt.Fprintf(r.out, "%s (#%s)\n", item.Name, item.ID)
	if item.Category != "" {
		fmt.Fprintf(r.out, "category: %s\n", item.Category)
	}
	if item.Description != "" {
		fmt.Fprintln(r.out, item.Description)
	}
	if item.Rating > 0 {
		fmt.Fprintf(r.out, "rating: %.1f / 5\n", item.Rating)
	}
	if !item.HasPrices() {
		fmt.Fprintln(r.out, priceUnavailable)
		return
	}
	for _, chain := range sortedChains(item.Prices) {
		fmt.Fprintf(r.out, "  %s\t%.2f\n", chain, item.Prices[chain])
	}
}

// CategoryTree prints the three-level hierarchy.
func (r *Renderer) CategoryTree(tree models.CategoryTree) {
	if len(tree) == 0 {
		fmt.Fprintln(r.out, "no categories loaded")
		return
	}

	generals := make([]string, 0, len(tree))
	for general := range tree {
		generals = append(generals, general)
	}
	sort.Strings(generals)

	for _, general := range generals {
		fmt.Fprintln(r.out, general)
		subs := make([]string, 0, len(tree[general]))
		for sub := range tree[general] {
			subs = append(subs, sub)
		}
		sort.Strings(subs)
		for _, sub := range subs {
			fmt.Fprintf(r.out, "  %s: %s\n", sub, strings.Join(tree[general][sub], ", "))
		}
	}
}

// CartView prints the cart lines and the per-supermarket totals, with
// the cheapest chain marked.
func (r *Renderer) CartView(lines []models.Line, totals map[string]float64) {
	if len(lines) == 0 {
		fmt.Fprintln(r.out, "the cart is empty")
		return
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QTY\tITEM\tPRICES")
	for _, line := range lines {
		fmt.Fprintf(w, "%d\t%s\t%s\n", line.Quantity, line.Item.Name, formatPrices(line.Item))
	}
	w.Flush()

	if len(totals) == 0 {
		return
	}

	cheapest := ""
	for _, chain := range sortedChains(totals) {
		if cheapest == "" || totals[chain] < totals[cheapest] {
			cheapest = chain
		}
	}

	fmt.Fprintln(r.out, "totals:")
	for _, chain := range sortedChains(totals) {
		marker := ""
		if chain == cheapest {
			marker = "  <- cheapest"
		}
		fmt.Fprintf(r.out, "  %s\t%.2f%s\n", chain, totals[chain], marker)
	}
}

// HistoryList prints the saved carts, assumed already sorted by the
// store (newest first).
func (r *Renderer) HistoryList(history []models.SavedCart) {
	if len(history) == 0 {
		fmt.Fprintln(r.out, "no saved carts")
		return
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED\tLINES\tSTATE")
	for _, saved := range history {
		state := "active"
		if saved.Archived {
			state = "archived"
		}
		name := saved.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%d\t%s\n",
			saved.ID,
			name,
			saved.CreatedAt.Format("2006-01-02 15:04"),
			len(saved.Items),
			state,
		)
	}
	w.Flush()
}

// Help prints the command reference.
func (r *Renderer) Help() {
	fmt.Fprint(r.out, `commands:
  register <name> <email> <password>  create an account and log in
  login <email> <password>            log in
  logout                              log out
  categories                          show the category tree
  browse <general> <sub>              list items of a category pair
  search <query>                      search items by name
  item <id>                           show one item in detail
  newcart                             start a new cart
  add <itemId> [qty]                  add an item to the cart
  remove <itemId> [qty]               remove an item from the cart
  qty <itemId> <n>                    set a line's quantity
  cart                                show the cart and totals
  save <name>                         save the cart as a named snapshot
  history                             list saved carts
  load <cartId>                       load a saved cart
  delete <cartId>                     delete a saved cart
  clear                               delete the active cart
  help                                this text
  quit                                exit
`)
}
