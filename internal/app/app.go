// Package app initializes and runs the interactive client.
// It configures logging, the API clients, the session, catalog and cart
// stores, and drives the command loop, handling graceful shutdown.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	validator "github.com/go-playground/validator/v10"

	"github.com/patric-chuzhbe/grocart/internal/api"
	"github.com/patric-chuzhbe/grocart/internal/cart"
	"github.com/patric-chuzhbe/grocart/internal/catalog"
	"github.com/patric-chuzhbe/grocart/internal/config"
	"github.com/patric-chuzhbe/grocart/internal/db/sessionfile"
	"github.com/patric-chuzhbe/grocart/internal/logger"
	"github.com/patric-chuzhbe/grocart/internal/models"
	"github.com/patric-chuzhbe/grocart/internal/session"
	"github.com/patric-chuzhbe/grocart/internal/ui"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// App encapsulates the configuration, the API clients, the stores and
// the terminal UI of the client.
type App struct {
	cfg      *config.Config
	validate *validator.Validate

	usersAPI *api.Users
	itemsAPI *api.Items

	sessions *session.Store
	catalog  *catalog.Store
	cart     *cart.Store

	render *ui.Renderer
	input  io.Reader
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing the logger
// - constructing one API client per backend resource
// - rehydrating the session from durable storage
// - wiring the catalog and cart stores to their clients
func New() (*App, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return nil, err
	}

	usersAPI := api.NewUsers(cfg.UsersAPIBase, cfg.RequestTimeout)
	cartsAPI := api.NewCarts(cfg.CartsAPIBase, cfg.RequestTimeout)
	cartItemsAPI := api.NewCartItems(cfg.CartItemsAPIBase, cfg.RequestTimeout)
	categoriesAPI := api.NewCategories(cfg.CategoriesAPIBase, cfg.RequestTimeout)
	itemsAPI := api.NewItems(cfg.ItemsAPIBase, cfg.RequestTimeout)

	sessions := session.New(sessionfile.New(cfg.SessionFileName), usersAPI)

	return &App{
		cfg:      cfg,
		validate: validator.New(),
		usersAPI: usersAPI,
		itemsAPI: itemsAPI,
		sessions: sessions,
		catalog:  catalog.New(itemsAPI, categoriesAPI, cfg.PageSize),
		cart:     cart.New(cartsAPI, cartItemsAPI, sessions),
		render:   ui.New(os.Stdout),
		input:    os.Stdin,
	}, nil
}

// Run drives the command loop until the input ends, the user quits, or
// a termination signal arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The session store finishes rehydrating before New returns; only
	// after that may "no current user" be read as "logged out".
	if !a.sessions.Ready() {
		return fmt.Errorf("session store is not ready")
	}

	a.catalog.LoadCategories(ctx)
	a.render.Banner(a.catalog.LastError())

	if _, loggedIn := a.sessions.Current(); loggedIn {
		if err := a.cart.RefreshHistory(ctx); err != nil {
			a.render.Banner(a.cart.LastError())
		}
	}

	usr, loggedIn := a.sessions.Current()
	a.render.StatusLine(usr, loggedIn, a.cart.ActiveCartID())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.input)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println("\nReceived shutdown signal, exiting...")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := a.executeCommand(ctx, line); quit {
				return nil
			}
		}
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func (a *App) requireUser() (models.User, bool) {
	usr, loggedIn := a.sessions.Current()
	if !loggedIn {
		a.render.Banner("please log in first")
	}

	return usr, loggedIn
}

// executeCommand dispatches one input line. It returns true when the
// loop should stop.
func (a *App) executeCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	command, args := fields[0], fields[1:]

	switch command {
	case "quit", "exit":
		return true
	case "help":
		a.render.Help()
	case "register":
		a.handleRegister(ctx, args)
	case "login":
		a.handleLogin(ctx, args)
	case "logout":
		a.handleLogout(ctx)
	case "categories":
		a.render.CategoryTree(a.catalog.Categories())
	case "browse":
		a.handleBrowse(ctx, args)
	case "search":
		a.handleSearch(ctx, args)
	case "item":
		a.handleItem(ctx, args)
	case "newcart":
		a.handleNewCart(ctx)
	case "add":
		a.handleAdd(ctx, args)
	case "remove":
		a.handleRemove(ctx, args)
	case "qty":
		a.handleQty(ctx, args)
	case "cart":
		a.render.CartView(a.cart.Lines(), a.cart.SupermarketTotals())
	case "save":
		a.handleSave(ctx, args)
	case "history":
		a.handleHistory(ctx)
	case "load":
		a.handleLoad(ctx, args)
	case "delete":
		a.handleDelete(ctx, args)
	case "clear":
		a.handleClear(ctx)
	default:
		a.render.Banner("unknown command, try `help`")
	}

	return false
}

func (a *App) handleRegister(ctx context.Context, args []string) {
	if len(args) < 3 {
		a.render.Banner("usage: register <name> <email> <password>")
		return
	}

	request := models.RegisterRequest{
		Name:     strings.Join(args[:len(args)-2], " "),
		Email:    args[len(args)-2],
		Password: args[len(args)-1],
	}
	if err := a.validate.Struct(request); err != nil {
		a.render.Banner("invalid registration input: check the email and the password length")
		return
	}

	registered, err := a.usersAPI.Register(ctx, request)
	if err != nil {
		a.render.Banner("registration failed: " + err.Error())
		return
	}

	if err := a.sessions.Login(registered); err != nil {
		a.render.Banner("failed to persist the session: " + err.Error())
		return
	}

	a.render.StatusLine(registered, true, a.cart.ActiveCartID())
}

func (a *App) handleLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.render.Banner("usage: login <email> <password>")
		return
	}

	form := loginForm{Email: args[0], Password: args[1]}
	if err := a.validate.Struct(form); err != nil {
		a.render.Banner("invalid login input: check the email")
		return
	}

	loggedIn, err := a.usersAPI.Login(ctx, form.Email, form.Password)
	if err != nil {
		a.render.Banner("login failed: " + err.Error())
		return
	}

	if err := a.sessions.Login(loggedIn); err != nil {
		a.render.Banner("failed to persist the session: " + err.Error())
		return
	}

	if err := a.cart.RefreshHistory(ctx); err != nil {
		a.render.Banner(a.cart.LastError())
	}

	a.render.StatusLine(loggedIn, true, a.cart.ActiveCartID())
}

func (a *App) handleLogout(ctx context.Context) {
	if err := a.sessions.Logout(ctx); err != nil {
		a.render.Banner("logout failed: " + err.Error())
		return
	}

	a.render.StatusLine(models.User{}, false, a.cart.ActiveCartID())
}

func (a *App) handleBrowse(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.render.Banner("usage: browse <general> <sub>")
		return
	}

	items := a.catalog.FetchItemsByCategory(ctx, args[0], args[1])
	a.render.Banner(a.catalog.LastError())
	a.render.ItemTable(items)
}

func (a *App) handleSearch(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.render.Banner("usage: search <query>")
		return
	}

	items := a.catalog.SearchItems(ctx, strings.Join(args, " "))
	a.render.Banner(a.catalog.LastError())
	a.render.ItemTable(items)
}

func (a *App) handleItem(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.render.Banner("usage: item <id>")
		return
	}

	item, err := a.itemsAPI.ByID(ctx, args[0])
	if err != nil {
		a.render.Banner("failed to fetch the item: " + err.Error())
		return
	}

	a.render.ItemDetail(item)
}

func (a *App) handleNewCart(ctx context.Context) {
	if _, loggedIn := a.requireUser(); !loggedIn {
		return
	}

	if err := a.cart.StartNewCart(ctx); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	usr, loggedIn := a.sessions.Current()
	a.render.StatusLine(usr, loggedIn, a.cart.ActiveCartID())
}

func (a *App) findDisplayedItem(itemID string) (models.Item, bool) {
	for _, item := range a.catalog.Items() {
		if item.ID == itemID {
			return item, true
		}
	}

	return models.Item{}, false
}

func parseQuantity(args []string, position, fallback int) int {
	if len(args) <= position {
		return fallback
	}
	quantity, err := strconv.Atoi(args[position])
	if err != nil || quantity < 1 {
		return fallback
	}

	return quantity
}

func (a *App) handleAdd(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.render.Banner("usage: add <itemId> [qty]")
		return
	}
	if a.cart.ActiveCartID() == "" {
		a.render.Banner("no active cart, run `newcart` first")
		return
	}

	item, found := a.findDisplayedItem(args[0])
	if !found {
		var err error
		item, err = a.itemsAPI.ByID(ctx, args[0])
		if err != nil {
			a.render.Banner("unknown item: " + err.Error())
			return
		}
	}

	if err := a.cart.AddToCart(ctx, item, parseQuantity(args, 1, 1)); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	a.render.CartView(a.cart.Lines(), a.cart.SupermarketTotals())
}

func (a *App) handleRemove(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.render.Banner("usage: remove <itemId> [qty]")
		return
	}

	if err := a.cart.RemoveFromCart(ctx, args[0], parseQuantity(args, 1, 1)); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	a.render.CartView(a.cart.Lines(), a.cart.SupermarketTotals())
}

func (a *App) handleQty(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.render.Banner("usage: qty <itemId> <n>")
		return
	}
	newQuantity, err := strconv.Atoi(args[1])
	if err != nil {
		a.render.Banner("usage: qty <itemId> <n>")
		return
	}

	if err := a.cart.UpdateQuantity(ctx, args[0], newQuantity); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	a.render.CartView(a.cart.Lines(), a.cart.SupermarketTotals())
}

func (a *App) handleSave(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.render.Banner("usage: save <name>")
		return
	}

	if err := a.cart.SaveCart(ctx, strings.Join(args, " ")); err != nil {
		if err == cart.ErrEmptyCart {
			a.render.Banner("cannot save an empty cart")
		} else {
			a.render.Banner(a.cart.LastError())
		}
		return
	}

	fmt.Println("cart saved")
}

func (a *App) handleHistory(ctx context.Context) {
	if _, loggedIn := a.requireUser(); !loggedIn {
		return
	}

	if err := a.cart.RefreshHistory(ctx); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	a.render.HistoryList(a.cart.History())
}

func (a *App) handleLoad(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.render.Banner("usage: load <cartId>")
		return
	}
	if _, loggedIn := a.requireUser(); !loggedIn {
		return
	}

	if err := a.cart.LoadSavedCart(ctx, args[0]); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	a.render.CartView(a.cart.Lines(), a.cart.SupermarketTotals())
}

func (a *App) handleDelete(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.render.Banner("usage: delete <cartId>")
		return
	}
	if _, loggedIn := a.requireUser(); !loggedIn {
		return
	}

	if err := a.cart.DeleteSavedCart(ctx, args[0]); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	a.render.HistoryList(a.cart.History())
}

func (a *App) handleClear(ctx context.Context) {
	if err := a.cart.ClearCart(ctx); err != nil {
		a.render.Banner(a.cart.LastError())
		return
	}

	usr, loggedIn := a.sessions.Current()
	a.render.StatusLine(usr, loggedIn, a.cart.ActiveCartID())
}
