package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"coffeeshell/models"
	"coffeeshell/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedPrompter answers prompts from a fixed script, in order.
type scriptedPrompter struct {
	answers []any
	asked   []string
}

var errScriptExhausted = errors.New("script exhausted")

func (p *scriptedPrompter) next(msg string) (any, error) {
	p.asked = append(p.asked, msg)
	if len(p.answers) == 0 {
		return nil, errScriptExhausted
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func (p *scriptedPrompter) Select(msg string, options []string) (string, error) {
	a, err := p.next(msg)
	if err != nil {
		return "", err
	}
	s := a.(string)
	for _, o := range options {
		if o == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %v", s, options)
}

func (p *scriptedPrompter) Input(msg string) (string, error) {
	a, err := p.next(msg)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (p *scriptedPrompter) Password(msg string) (string, error) { return p.Input(msg) }

func (p *scriptedPrompter) Confirm(msg string, _ bool) (bool, error) {
	a, err := p.next(msg)
	if err != nil {
		return false, err
	}
	return a.(bool), nil
}

// memDirectory is an in-memory user directory.
type memDirectory struct {
	users map[string]models.User
	err   error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{users: make(map[string]models.User)}
}

func (d *memDirectory) CreateUser(_ context.Context, u models.User) error {
	if d.err != nil {
		return d.err
	}
	if _, ok := d.users[u.Email]; ok {
		return services.ErrDuplicateEmail
	}
	d.users[u.Email] = u
	return nil
}

func (d *memDirectory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.users[email]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &u, nil
}

// recorder captures gateway, store and notifier calls in order.
type recorder struct {
	calls      []string
	amounts    []decimal.Decimal
	orders     []models.PlacedOrder
	gatewayErr error
	storeErr   error
	notifyErr  error
	notified   int
}

func (r *recorder) CheckoutURL(_ context.Context, amount decimal.Decimal) (string, error) {
	r.calls = append(r.calls, "gateway")
	r.amounts = append(r.amounts, amount)
	if r.gatewayErr != nil {
		return "", r.gatewayErr
	}
	return "https://checkout.example/c/pay/cs_test_1", nil
}

func (r *recorder) SaveOrder(_ context.Context, o models.PlacedOrder) error {
	r.calls = append(r.calls, "store")
	if r.storeErr != nil {
		return r.storeErr
	}
	r.orders = append(r.orders, o)
	return nil
}

func (r *recorder) NotifyOrder(context.Context, models.User, models.PlacedOrder) error {
	r.notified++
	return r.notifyErr
}

type plainLink struct{}

func (plainLink) RenderLink(w io.Writer, url string) { fmt.Fprintln(w, url) }

type fixture struct {
	dir *memDirectory
	rec *recorder
	out *bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{dir: newMemDirectory(), rec: &recorder{}, out: &bytes.Buffer{}}
}

func (f *fixture) sequencer(t *testing.T, answers ...any) (*Sequencer, *scriptedPrompter) {
	p := &scriptedPrompter{answers: answers}
	s := NewSequencer(Deps{
		Auth:     services.NewAccounts(f.dir),
		Gateway:  f.rec,
		Orders:   f.rec,
		Notifier: f.rec,
		Prompter: p,
		Link:     plainLink{},
		Out:      f.out,
		Logger:   zaptest.NewLogger(t),
	})
	s.newID = func() string { return "order-1" }
	return s, p
}

func (f *fixture) register(t *testing.T, email, name, password string) *models.User {
	u, err := services.NewAccounts(f.dir).Register(context.Background(), email, name, password)
	require.NoError(t, err)
	return u
}

var latteOrder = []any{"Latte", "Two teaspoons", "Soy milk", "Add whipped cream"}

func login(email, password string) []any {
	return []any{choiceLogIn, email, password}
}

func script(parts ...[]any) []any {
	var out []any
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestRunConfirmedOrder(t *testing.T) {
	f := newFixture()
	u := f.register(t, "a@x.com", "Alice", "secret123")

	s, _ := f.sequencer(t, script(login("a@x.com", "secret123"), latteOrder, []any{true})...)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, []State{
		StateStart, StateAuthChoice, StateLogin, StateItemSelect, StateSugarSelect,
		StateMilkSelect, StateCreamSelect, StateSummary, StateConfirm,
		StatePaymentHandoff, StatePersist, StateEnd,
	}, res.Trace)

	assert.Equal(t, []string{"gateway", "store"}, f.rec.calls)
	require.Len(t, f.rec.amounts, 1)
	assert.Equal(t, "3.50", f.rec.amounts[0].StringFixed(2))

	require.Len(t, f.rec.orders, 1)
	o := f.rec.orders[0]
	assert.False(t, o.Paid)
	assert.Equal(t, u.ID, o.UserID)
	assert.Equal(t, "Latte", o.ItemName)
	assert.Equal(t, "Two teaspoons", o.SugarLevel)
	assert.Equal(t, "Soy milk", o.MilkType)
	assert.Equal(t, "Add whipped cream", o.WhippedCream)
	assert.Equal(t, "https://checkout.example/c/pay/cs_test_1", o.CheckoutURL)
	assert.Equal(t, 1, f.rec.notified)

	out := f.out.String()
	assert.Contains(t, out, "- Total Price: $3.50")
	assert.Contains(t, out, "Logged in successfully!")
	assert.Contains(t, out, "https://checkout.example/c/pay/cs_test_1")
	assert.Contains(t, out, "Thank you for your order!")
}

func TestRunDeclinedConfirmation(t *testing.T) {
	f := newFixture()
	f.register(t, "a@x.com", "Alice", "secret123")

	s, _ := f.sequencer(t, script(login("a@x.com", "secret123"), latteOrder, []any{false})...)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, []State{StateConfirm, StateCancelled, StateEnd}, res.Trace[len(res.Trace)-3:])
	assert.Empty(t, f.rec.calls)
	assert.Zero(t, f.rec.notified)
	assert.Nil(t, res.Order)
	assert.Contains(t, f.out.String(), "Order canceled.")
}

func TestRunRegisterThenWrongPassword(t *testing.T) {
	f := newFixture()

	s, _ := f.sequencer(t, choiceCreateAccount, "a@x.com", "Alice", "secret123", "Latte", "No sugar", "No milk", "No whipped cream", false)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	require.NotNil(t, res.User)
	assert.Equal(t, "Alice", res.User.Name)
	assert.NotEqual(t, "secret123", f.dir.users["a@x.com"].PasswordHash)

	s, p := f.sequencer(t, login("a@x.com", "wrongpass")...)
	res, err = s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.True(t, services.IsCredentialError(res.Err))
	assert.ErrorIs(t, res.Err, services.ErrBadCredentials)
	assert.Equal(t, []State{StateStart, StateAuthChoice, StateLogin, StateEnd}, res.Trace)
	assert.Len(t, p.asked, 3)
	assert.Nil(t, res.User)
	assert.Empty(t, f.rec.calls)
	assert.Contains(t, f.out.String(), "Error logging in: Incorrect password")
}

func TestRunLoginUnknownUser(t *testing.T) {
	f := newFixture()
	s, _ := f.sequencer(t, login("nobody@x.com", "pw")...)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, services.ErrNotFound)
	assert.Contains(t, f.out.String(), "Error logging in: User not found")
}

func TestRunRegisterDirectoryFailure(t *testing.T) {
	f := newFixture()
	f.dir.err = errors.New("connection refused")

	s, _ := f.sequencer(t, choiceCreateAccount, "a@x.com", "Alice", "secret123")
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, services.ErrDirectory)
	assert.Equal(t, StateEnd, res.Trace[len(res.Trace)-1])
	assert.Contains(t, f.out.String(), "Error creating account:")
	assert.Empty(t, f.rec.calls)
}

func TestRunRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.register(t, "a@x.com", "Alice", "secret123")

	s, _ := f.sequencer(t, choiceCreateAccount, "A@X.com ", "Alice Again", "other")
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, services.ErrDuplicateEmail)
	assert.Contains(t, f.out.String(), "email already registered")
}

func TestRunGatewayFailureSkipsPersist(t *testing.T) {
	f := newFixture()
	f.register(t, "a@x.com", "Alice", "secret123")
	f.rec.gatewayErr = fmt.Errorf("%w: card declined", services.ErrGateway)

	s, _ := f.sequencer(t, script(login("a@x.com", "secret123"), latteOrder, []any{true})...)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, services.ErrGateway)
	assert.Equal(t, []string{"gateway"}, f.rec.calls)
	assert.Equal(t, []State{StatePaymentHandoff, StateEnd}, res.Trace[len(res.Trace)-2:])
	assert.Zero(t, f.rec.notified)
}

func TestRunPersistFailureKeepsCheckout(t *testing.T) {
	f := newFixture()
	f.register(t, "a@x.com", "Alice", "secret123")
	f.rec.storeErr = fmt.Errorf("%w: timeout", services.ErrPersistence)

	s, _ := f.sequencer(t, script(login("a@x.com", "secret123"), latteOrder, []any{true})...)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, services.ErrPersistence)
	assert.Equal(t, []string{"gateway", "store"}, f.rec.calls)
	assert.NotEmpty(t, res.CheckoutURL)
	assert.Nil(t, res.Order)
	assert.Zero(t, f.rec.notified)
	assert.Contains(t, f.out.String(), "Error saving order:")
}

func TestRunNotifierFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture()
	f.register(t, "a@x.com", "Alice", "secret123")
	f.rec.notifyErr = errors.New("telegram down")

	s, _ := f.sequencer(t, script(login("a@x.com", "secret123"), latteOrder, []any{true})...)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, 1, f.rec.notified)
}

func TestRunPromptFailureAborts(t *testing.T) {
	f := newFixture()
	f.register(t, "a@x.com", "Alice", "secret123")
	interrupted := errors.New("interrupt")

	s, _ := f.sequencer(t, script(login("a@x.com", "secret123"), []any{"Mocha", interrupted})...)
	res, err := s.Run(context.Background())

	assert.ErrorIs(t, err, interrupted)
	assert.Equal(t, OutcomeAborted, res.Outcome)
	assert.Equal(t, StateSugarSelect, res.Trace[len(res.Trace)-1])
	assert.Empty(t, f.rec.calls)
}

func TestRunEveryMenuItemChargesUnitPrice(t *testing.T) {
	for _, item := range models.Menu {
		t.Run(item.Name, func(t *testing.T) {
			f := newFixture()
			f.register(t, "a@x.com", "Alice", "secret123")
			s, _ := f.sequencer(t, script(login("a@x.com", "secret123"),
				[]any{item.Name, "No sugar", "Whole milk", "No whipped cream", true})...)

			res, err := s.Run(context.Background())
			require.NoError(t, err)
			require.Len(t, f.rec.amounts, 1)
			assert.True(t, f.rec.amounts[0].Equal(item.UnitPrice))
			assert.True(t, res.Order.Price.Equal(item.UnitPrice))
		})
	}
}

func TestSummary(t *testing.T) {
	latte, _ := models.FindMenuItem("Latte")
	got := Summary(models.OrderDraft{Item: latte, SugarLevel: "Two teaspoons", MilkType: "Soy milk", WhippedCream: "Add whipped cream"})
	assert.Equal(t, "\nHere is your order summary:\n"+
		"- Coffee: Latte\n"+
		"- Sugar: Two teaspoons\n"+
		"- Milk: Soy milk\n"+
		"- Whipped Cream: Add whipped cream\n"+
		"- Total Price: $3.50\n\n", got)
}
