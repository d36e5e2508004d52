package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"coffeeshell/models"
	"coffeeshell/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	choiceCreateAccount = "Create Account"
	choiceLogIn         = "Log In"
)

// Authenticator is the account side of the flow.
type Authenticator interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type Deps struct {
	Auth    Authenticator
	Gateway services.PaymentGateway
	Orders  services.OrderStore
	// Notifier is optional.
	Notifier services.Notifier
	Prompter Prompter
	Link     LinkRenderer
	Out      io.Writer
	Logger   *zap.Logger
}

// Sequencer drives one customer through the order flow. It holds no per-run state.
type Sequencer struct {
	deps  Deps
	newID func() string
	now   func() time.Time
}

func NewSequencer(d Deps) *Sequencer {
	if d.Link == nil {
		d.Link = QRRenderer{}
	}
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Sequencer{deps: d, newID: uuid.NewString, now: time.Now}
}

// Result describes a finished run.
type Result struct {
	Outcome     Outcome
	Trace       []State
	User        *models.User
	Draft       models.OrderDraft
	CheckoutURL string
	Order       *models.PlacedOrder
	// Err is the external failure for OutcomeFailed or the prompt failure for OutcomeAborted.
	Err error
}

type stepFunc func(ctx context.Context) (State, error)

// run is the state of a single pass through the flow.
type run struct {
	*Sequencer
	res *Result
	log *zap.Logger
}

// Run executes the flow until END. Failed external calls end the run with
// OutcomeFailed and a nil error; only prompt failures are returned as errors.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	r := &run{Sequencer: s, res: &Result{}, log: s.deps.Logger}
	steps := map[State]stepFunc{
		StateStart:          r.start,
		StateAuthChoice:     r.authChoice,
		StateRegister:       r.register,
		StateLogin:          r.login,
		StateItemSelect:     r.itemSelect,
		StateSugarSelect:    r.sugarSelect,
		StateMilkSelect:     r.milkSelect,
		StateCreamSelect:    r.creamSelect,
		StateSummary:        r.summary,
		StateConfirm:        r.confirm,
		StatePaymentHandoff: r.paymentHandoff,
		StatePersist:        r.persist,
		StateCancelled:      r.cancelled,
	}

	state := StateStart
	for {
		r.res.Trace = append(r.res.Trace, state)
		if state == StateEnd {
			return r.res, nil
		}
		step, ok := steps[state]
		if !ok {
			return r.abort(fmt.Errorf("no step for state %s", state))
		}
		next, err := step(ctx)
		if err != nil {
			return r.abort(err)
		}
		if !CanTransition(state, next) {
			return r.abort(fmt.Errorf("invalid transition %s -> %s", state, next))
		}
		state = next
	}
}

func (r *run) abort(err error) (*Result, error) {
	r.res.Outcome = OutcomeAborted
	r.res.Err = err
	return r.res, err
}

// fail records an external failure and ends the run.
func (r *run) fail(err error, userMsg string) (State, error) {
	r.printf("%s\n", userMsg)
	r.res.Outcome = OutcomeFailed
	r.res.Err = err
	return StateEnd, nil
}

func (r *run) printf(format string, args ...any) {
	fmt.Fprintf(r.deps.Out, format, args...)
}

func (r *run) start(context.Context) (State, error) {
	r.printf("Welcome to the Coffee CLI App!\n")
	r.printf("Please create an account or log in to continue.\n\n")
	return StateAuthChoice, nil
}

func (r *run) authChoice(context.Context) (State, error) {
	choice, err := r.deps.Prompter.Select("Do you want to create an account or log in?",
		[]string{choiceCreateAccount, choiceLogIn})
	if err != nil {
		return 0, err
	}
	if choice == choiceCreateAccount {
		return StateRegister, nil
	}
	return StateLogin, nil
}

func (r *run) register(ctx context.Context) (State, error) {
	email, err := r.deps.Prompter.Input("Enter your email:")
	if err != nil {
		return 0, err
	}
	name, err := r.deps.Prompter.Input("Enter your name:")
	if err != nil {
		return 0, err
	}
	password, err := r.deps.Prompter.Password("Create a password:")
	if err != nil {
		return 0, err
	}

	u, err := r.deps.Auth.Register(ctx, email, name, password)
	if err != nil {
		r.log.Warn("register failed", zap.String("email", services.NormalizeEmail(email)), zap.Error(err))
		return r.fail(err, "Error creating account: "+err.Error())
	}
	r.res.User = u
	r.log.Info("account created", zap.String("user_id", u.ID))
	r.printf("Account created successfully!\n")
	return StateItemSelect, nil
}

func (r *run) login(ctx context.Context) (State, error) {
	email, err := r.deps.Prompter.Input("Enter your email:")
	if err != nil {
		return 0, err
	}
	password, err := r.deps.Prompter.Password("Enter your password:")
	if err != nil {
		return 0, err
	}

	u, err := r.deps.Auth.Authenticate(ctx, email, password)
	if err != nil {
		r.log.Warn("login failed", zap.String("email", services.NormalizeEmail(email)), zap.Error(err))
		switch {
		case errors.Is(err, services.ErrNotFound):
			return r.fail(err, "Error logging in: User not found")
		case errors.Is(err, services.ErrBadCredentials):
			return r.fail(err, "Error logging in: Incorrect password")
		default:
			return r.fail(err, "Error logging in: "+err.Error())
		}
	}
	r.res.User = u
	r.log.Info("logged in", zap.String("user_id", u.ID))
	r.printf("Logged in successfully!\n")
	return StateItemSelect, nil
}

func (r *run) itemSelect(context.Context) (State, error) {
	name, err := r.deps.Prompter.Select("What coffee would you like to order?", models.MenuNames())
	if err != nil {
		return 0, err
	}
	item, ok := models.FindMenuItem(name)
	if !ok {
		return 0, fmt.Errorf("prompt returned unknown menu item %q", name)
	}
	r.res.Draft.Item = item
	return StateSugarSelect, nil
}

func (r *run) sugarSelect(context.Context) (State, error) {
	v, err := r.deps.Prompter.Select("How much sugar would you like?", models.SugarOptions)
	if err != nil {
		return 0, err
	}
	r.res.Draft.SugarLevel = v
	return StateMilkSelect, nil
}

func (r *run) milkSelect(context.Context) (State, error) {
	v, err := r.deps.Prompter.Select("What type of milk would you like?", models.MilkOptions)
	if err != nil {
		return 0, err
	}
	r.res.Draft.MilkType = v
	return StateCreamSelect, nil
}

func (r *run) creamSelect(context.Context) (State, error) {
	v, err := r.deps.Prompter.Select("Would you like to add whipped cream?", models.WhippedCreamOptions)
	if err != nil {
		return 0, err
	}
	r.res.Draft.WhippedCream = v
	return StateSummary, nil
}

func (r *run) summary(context.Context) (State, error) {
	r.printf("%s", Summary(r.res.Draft))
	return StateConfirm, nil
}

// Summary renders a draft and its total.
func Summary(d models.OrderDraft) string {
	return fmt.Sprintf("\nHere is your order summary:\n"+
		"- Coffee: %s\n"+
		"- Sugar: %s\n"+
		"- Milk: %s\n"+
		"- Whipped Cream: %s\n"+
		"- Total Price: %s\n\n",
		d.Item.Name, d.SugarLevel, d.MilkType, d.WhippedCream, models.FormatPrice(d.Total()))
}

func (r *run) confirm(context.Context) (State, error) {
	ok, err := r.deps.Prompter.Confirm("Would you like to confirm your order?", true)
	if err != nil {
		return 0, err
	}
	if !ok {
		return StateCancelled, nil
	}
	return StatePaymentHandoff, nil
}

func (r *run) cancelled(context.Context) (State, error) {
	r.printf("Order canceled.\n")
	r.res.Outcome = OutcomeCancelled
	return StateEnd, nil
}

func (r *run) paymentHandoff(ctx context.Context) (State, error) {
	amount := r.res.Draft.Total()
	url, err := r.deps.Gateway.CheckoutURL(ctx, amount)
	if err != nil {
		r.log.Error("checkout link failed", zap.String("amount", amount.StringFixed(2)), zap.Error(err))
		return r.fail(err, "An error occurred while placing your order: "+err.Error())
	}
	r.res.CheckoutURL = url
	r.printf("Please complete the payment by scanning the QR code or clicking the link:\n")
	r.deps.Link.RenderLink(r.deps.Out, url)
	return StatePersist, nil
}

func (r *run) persist(ctx context.Context) (State, error) {
	o := models.NewPlacedOrder(r.newID(), *r.res.User, r.res.Draft, r.res.CheckoutURL, r.now().UTC())
	if err := r.deps.Orders.SaveOrder(ctx, o); err != nil {
		// The checkout link is already with the customer; log it so the order can be reconciled by hand.
		r.log.Error("save order failed",
			zap.String("user_id", o.UserID),
			zap.String("item", o.ItemName),
			zap.String("checkout_url", r.res.CheckoutURL),
			zap.Error(err))
		return r.fail(err, "Error saving order: "+err.Error())
	}
	r.res.Order = &o
	r.res.Outcome = OutcomeCompleted
	r.log.Info("order placed", zap.String("order_id", o.ID), zap.String("user_id", o.UserID))
	r.printf("Thank you for your order! Your coffee will be ready shortly after payment.\n")

	if r.deps.Notifier != nil {
		if err := r.deps.Notifier.NotifyOrder(ctx, *r.res.User, o); err != nil {
			r.log.Warn("notify shop failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return StateEnd, nil
}
