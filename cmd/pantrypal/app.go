package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/pantrypal/internal/conversation"
	"github.com/hammamikhairi/pantrypal/internal/display"
	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/engine"
	"github.com/hammamikhairi/pantrypal/internal/flow"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

func runChat(ctx context.Context, rt *runtime) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := &cliApp{
		engine: rt.engine,
		parser: conversation.NewKeywordParser(rt.log),
		owner:  rt.cfg.OwnerID,
		log:    rt.log,
	}
	app.ui = display.NewUI(app.status)
	app.notifier = conversation.NewCLINotifier(rt.log, app.ui.Printf)

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		app.ui.WaitReady()
		app.run(ctx)
		app.ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	err := app.ui.Run()
	cancel()
	return err
}

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	notifier domain.Notifier
	ui       *display.UI
	owner    string
	log      *logger.Logger

	sessionID string
	shown     []domain.ListItem // positions used by "done <n>"

	mu     sync.Mutex
	recipe *domain.Recipe // recipe with a pending check
}

// status feeds the display bar. Called from the UI goroutine.
func (a *cliApp) status() display.Status {
	ctx := context.Background()
	var st display.Status
	if open, done, err := a.engine.ListItems(ctx, a.owner); err == nil {
		st.Open, st.Completed = len(open), len(done)
	}
	if r := a.pendingRecipe(); r != nil {
		if state, ok := a.engine.PendingFlow(a.owner, r.ID); ok {
			st.Flow = state.String()
			st.Recipe = r.Name
		}
	}
	return st
}

func (a *cliApp) pendingRecipe() *domain.Recipe {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recipe
}

func (a *cliApp) setPending(r *domain.Recipe) {
	a.mu.Lock()
	a.recipe = r
	a.mu.Unlock()
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Hi! Tell me what to put on your shopping list, or 'check <recipe>'.")

	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-a.ui.InputChan():
			if !ok {
				return
			}
			input = v
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if !a.handleIntent(ctx, intent) {
			return
		}
	}
}

// handleIntent returns false when the user asked to quit.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentQuit:
		a.ui.PrintChat("Bye!")
		return false
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentShowList:
		a.showList(ctx)
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentCheckRecipe:
		a.checkRecipe(ctx, intent.Payload)
	case domain.IntentConfirmAdd:
		a.confirmAdd(ctx)
	case domain.IntentCancel:
		a.cancel()
	case domain.IntentClearComplete:
		a.clearCompleted(ctx)
	case domain.IntentToggleItem:
		a.toggle(ctx, intent.Payload)
	case domain.IntentNewSession:
		a.newSession(ctx)
	case domain.IntentCommand:
		a.command(ctx, intent.Payload)
	}
	return true
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeader("Commands")
	for _, line := range []string{
		"list               show the shopping list",
		"recipes            show recipes",
		"check <recipe>     see what a recipe still needs",
		"add / cancel       add the missing items, or drop the check",
		"done <n>           tick item n on the list (again to untick)",
		"clear              remove ticked items",
		"new                start a fresh conversation",
		"quit               exit",
	} {
		a.ui.PrintLine(line)
	}
	a.ui.PrintHint("Anything else is read as an instruction, e.g. \"add 2 cartons of milk\".")
}

func (a *cliApp) showList(ctx context.Context) {
	open, done, err := a.engine.ListItems(ctx, a.owner)
	if err != nil {
		a.fail(err)
		return
	}
	a.shown = append(append([]domain.ListItem(nil), open...), done...)
	for _, line := range strings.Split(strings.TrimRight(formatList(open, done), "\n"), "\n") {
		a.ui.PrintLine(line)
	}
}

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.engine.ListRecipes(ctx)
	if err != nil {
		a.fail(err)
		return
	}
	for _, line := range strings.Split(strings.TrimRight(formatRecipes(recipes), "\n"), "\n") {
		a.ui.PrintLine(line)
	}
}

func (a *cliApp) checkRecipe(ctx context.Context, query string) {
	r, err := a.engine.FindRecipe(ctx, query)
	if err != nil {
		a.log.Debug("find recipe %q: %v", query, err)
		a.ui.PrintHint(fmt.Sprintf("No single recipe matches %q. Type 'recipes' to see them.", query))
		return
	}
	a.ui.PrintHint("Checking " + r.Name + " against your pantry...")

	v, err := a.engine.CheckRecipeFeasibility(ctx, a.owner, r.ID)
	if err != nil {
		a.fail(err)
		return
	}
	a.ui.PrintHeader(strings.TrimRight(formatVerdict(r, v), "\n"))
	if v.CanCook {
		a.setPending(nil)
		return
	}
	a.setPending(r)
	a.ui.PrintHint("Type 'add' to put these on your list, or 'cancel'.")
}

func (a *cliApp) confirmAdd(ctx context.Context) {
	r := a.pendingRecipe()
	if r == nil {
		a.ui.PrintHint("Nothing to add. Check a recipe first.")
		return
	}
	resp, err := a.engine.ResolveShortfall(ctx, a.owner, r.ID, nil)
	a.show(resp, err)
	a.settle(r)
}

func (a *cliApp) cancel() {
	r := a.pendingRecipe()
	if r == nil || !a.engine.CancelShortfall(a.owner, r.ID) {
		a.ui.PrintHint("Nothing to cancel.")
		return
	}
	a.setPending(nil)
	a.ui.PrintChat("Okay, dropped the check for " + r.Name + ".")
}

func (a *cliApp) clearCompleted(ctx context.Context) {
	n, err := a.engine.ClearCompleted(ctx, a.owner)
	if err != nil {
		a.fail(err)
		return
	}
	a.shown = nil
	_ = a.notifier.Notify(ctx, fmt.Sprintf("Cleared %d completed item(s).", n))
}

func (a *cliApp) toggle(ctx context.Context, pos string) {
	n, err := strconv.Atoi(pos)
	if err != nil || n < 1 || n > len(a.shown) {
		a.ui.PrintHint("Type 'list' first, then 'done <n>' with a number from it.")
		return
	}
	item := a.shown[n-1]
	updated, err := a.engine.SetCompleted(ctx, a.owner, item.ID, !item.Completed)
	if err != nil {
		a.fail(err)
		return
	}
	a.shown[n-1] = *updated
	state := "open"
	if updated.Completed {
		state = "done"
	}
	_ = a.notifier.Notify(ctx, fmt.Sprintf("%s marked %s.", updated.Name, state))
}

func (a *cliApp) newSession(ctx context.Context) {
	if a.sessionID != "" {
		_ = a.engine.EndSession(ctx, a.owner, a.sessionID)
		a.sessionID = ""
	}
	a.ui.PrintChat("Starting fresh.")
}

// command sends free text to the list agent, or to the recipe flow when
// it is waiting on an answer.
func (a *cliApp) command(ctx context.Context, text string) {
	if r := a.pendingRecipe(); r != nil {
		if state, ok := a.engine.PendingFlow(a.owner, r.ID); ok && state == flow.StateNeedsUserContext {
			resp, err := a.engine.ResolveShortfall(ctx, a.owner, r.ID, &text)
			a.show(resp, err)
			a.settle(r)
			return
		}
	}

	resp, err := a.engine.SubmitCommand(ctx, a.owner, a.sessionID, text)
	if resp.SessionID != "" {
		a.sessionID = resp.SessionID
	}
	a.show(resp, err)
}

// settle forgets r once its flow has finished.
func (a *cliApp) settle(r *domain.Recipe) {
	if _, ok := a.engine.PendingFlow(a.owner, r.ID); !ok {
		a.setPending(nil)
	}
}

func (a *cliApp) show(resp engine.Response, err error) {
	if err != nil {
		a.log.Warn("request failed: %v", err)
	}
	switch resp.Status {
	case engine.StatusInvoked:
		_ = a.notifier.Notify(context.Background(), resp.Message)
	case engine.StatusError:
		_ = a.notifier.NotifyUrgent(context.Background(), resp.Message)
	default:
		a.ui.PrintChat(resp.Message)
	}
}

func (a *cliApp) fail(err error) {
	a.log.Warn("%v", err)
	_ = a.notifier.NotifyUrgent(context.Background(), domain.UserMessage(err))
}
