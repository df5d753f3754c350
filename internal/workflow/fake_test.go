package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-headline-sync/internal/config"
)

const (
	testLoginURL   = "https://portal.test/login"
	testProfileURL = "https://portal.test/profile"
	testHomeURL    = "https://portal.test/home"

	selCaptcha   = "#captcha"
	selBadCreds  = "#bad-creds"
	selHeadText  = "#headline-text"
	selSuccess   = "#success"
	selLoginHint = "#login-prompt"
)

var errFakeTimeout = errors.New("fake: timed out")

func testConfig() *config.Config {
	cfg := &config.Config{
		LoginURL:    testLoginURL,
		ProfileURL:  testProfileURL,
		Headline:    "Senior Engineer",
		Headless:    true,
		Interactive: config.InteractiveNever,
		Retries:     3,
		Selectors: config.Selectors{
			UsernameField:       "#user",
			PasswordField:       "#pass",
			LoginButton:         "#submit",
			LoginPrompt:         selLoginHint,
			HeadlineSection:     "#headline",
			HeadlineEditButton:  "#headline .edit",
			HeadlineTextarea:    "#dialog textarea",
			HeadlineDialog:      "#dialog",
			SaveButton:          "#save",
			SaveButtonAlt:       "button.save",
			SuccessMessage:      selSuccess,
			HeadlineText:        selHeadText,
			ChallengeIndicators: []string{selCaptcha},
			AuthErrorIndicators: []string{selBadCreds},
		},
	}
	ms := config.Duration(time.Millisecond)
	cfg.Waits = config.Waits{
		WebDriver: 20 * ms,
		Login:     ms,
		PageLoad:  ms,
		Animation: ms,
		Input:     ms,
		Challenge: 50 * ms,
		Poll:      2 * ms,
	}
	return cfg
}

type staticCreds struct {
	creds config.Credentials
	err   error
}

func (s staticCreds) Credentials() (config.Credentials, error) { return s.creds, s.err }

func goodCreds() staticCreds {
	return staticCreds{creds: config.Credentials{Username: "me@example.com", Password: "hunter2"}}
}

type fakeLauncher struct {
	session  *fakeSession
	err      error
	launches int
}

func (l *fakeLauncher) Launch(context.Context) (Session, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

// fakeSession simulates the login page, the profile page and the headline dialog.
type fakeSession struct {
	mu  sync.Mutex
	sel config.Selectors

	url         string
	navigations []string
	closeCalls  int
	killCalls   int
	closeErr    error
	navigateErr error
	panicOnNav  bool

	loggedIn   bool
	dialogOpen bool
	saved      bool
	headline   string

	// behaviour knobs
	badCreds         bool
	challenge        bool
	challengeSolveIn int  // Present calls on the captcha before a human solves it; 0 = never
	rejectAfterSolve bool // the portal shows the credential error once the captcha is gone
	staysOnLogin     bool
	loginPromptOnce  bool
	profileMissing   bool
	noPrimarySave    bool
	failSaves        int
	saveAttempts     int
	displayedText    string

	challengeChecks int

	username, password, login, edit, textarea *fakeElement
	save, altHidden, altSave, section, text    *fakeElement
}

func newFakeSession(cfg *config.Config) *fakeSession {
	s := &fakeSession{sel: cfg.Selectors, headline: "Old headline"}
	s.username = &fakeElement{s: s, role: "username"}
	s.password = &fakeElement{s: s, role: "password"}
	s.login = &fakeElement{s: s, role: "login"}
	s.edit = &fakeElement{s: s, role: "edit"}
	s.textarea = &fakeElement{s: s, role: "textarea", value: "Old headline"}
	s.save = &fakeElement{s: s, role: "save"}
	s.altHidden = &fakeElement{s: s, role: "save", hidden: true}
	s.altSave = &fakeElement{s: s, role: "save"}
	s.section = &fakeElement{s: s, role: "section"}
	s.text = &fakeElement{s: s, role: "text"}
	return s
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOnNav {
		panic("fake: browser crashed")
	}
	s.navigations = append(s.navigations, url)
	if s.navigateErr != nil {
		return s.navigateErr
	}
	s.url = url
	return nil
}

func (s *fakeSession) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *fakeSession) onProfile() bool {
	return s.url == testProfileURL && s.loggedIn && !s.profileMissing
}

func (s *fakeSession) lookup(selector string) *fakeElement {
	switch selector {
	case s.sel.UsernameField:
		return s.username
	case s.sel.PasswordField:
		return s.password
	case s.sel.LoginButton:
		return s.login
	case s.sel.HeadlineSection:
		if s.onProfile() {
			return s.section
		}
	case s.sel.HeadlineEditButton:
		if s.onProfile() {
			return s.edit
		}
	case s.sel.HeadlineTextarea:
		if s.dialogOpen {
			return s.textarea
		}
	case s.sel.SaveButton:
		s.saveAttempts++
		if s.dialogOpen && !s.noPrimarySave {
			return s.save
		}
	case selSuccess:
		if s.saved {
			return &fakeElement{s: s, role: "success"}
		}
	case selHeadText:
		if s.onProfile() {
			return s.text
		}
	case selLoginHint:
		if s.url == testProfileURL && !s.loggedIn {
			return &fakeElement{s: s, role: "prompt"}
		}
	}
	return nil
}

func (s *fakeSession) Find(_ context.Context, selector string, _ time.Duration) (Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el := s.lookup(selector); el != nil {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %s", errFakeTimeout, selector)
}

func (s *fakeSession) FindAll(_ context.Context, selector string) ([]Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selector == s.sel.SaveButtonAlt && s.dialogOpen {
		return []Element{s.altHidden, s.altSave}, nil
	}
	return nil, nil
}

func (s *fakeSession) Present(_ context.Context, selector string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch selector {
	case selBadCreds:
		return s.badCreds && s.url == testLoginURL, nil
	case selCaptcha:
		if !s.challenge {
			return false, nil
		}
		s.challengeChecks++
		if s.challengeSolveIn > 0 && s.challengeChecks >= s.challengeSolveIn {
			s.challenge = false
			if s.rejectAfterSolve {
				s.badCreds = true
				return false, nil
			}
			s.loggedIn = true
			s.url = testHomeURL
			return false, nil
		}
		return true, nil
	}
	return false, nil
}

func (s *fakeSession) WaitFirst(_ context.Context, selectors []string, _ time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sel := range selectors {
		if s.lookup(sel) != nil {
			return i, nil
		}
	}
	return -1, errFakeTimeout
}

func (s *fakeSession) WaitGone(_ context.Context, selector string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selector == s.sel.HeadlineDialog && s.dialogOpen {
		return errFakeTimeout
	}
	return nil
}

func (s *fakeSession) Screenshot(string) error { return nil }

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	return s.closeErr
}

func (s *fakeSession) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killCalls++
	return nil
}

func (s *fakeSession) interactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.navigations) + s.closeCalls + s.killCalls
}

// onClick applies the page side effect of a successful click on el.
func (s *fakeSession) onClick(el *fakeElement) {
	switch el.role {
	case "login":
		if s.badCreds || s.challenge {
			return
		}
		s.loggedIn = true
		if s.loginPromptOnce {
			//the first login does not stick; the profile page asks again
			s.loginPromptOnce = false
			s.loggedIn = false
		}
		if !s.staysOnLogin {
			s.url = testHomeURL
		}
	case "edit":
		s.dialogOpen = true
	case "save":
		if s.saveAttempts > s.failSaves {
			s.dialogOpen = false
			s.saved = true
			s.headline = s.textarea.value
		}
	}
}

type fakeElement struct {
	s      *fakeSession
	role   string
	hidden bool
	value  string

	nativeErr  error
	scriptErr  error
	pointerErr error
	calls      []string

	clearFailures int // clears (standard and select-all) that leave text behind
	mangledTypes  int // Type calls that drop the last character
}

func (e *fakeElement) click(name string, err error) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.calls = append(e.calls, name)
	if err != nil {
		return err
	}
	e.s.onClick(e)
	return nil
}

func (e *fakeElement) Click() error        { return e.click("native", e.nativeErr) }
func (e *fakeElement) ScriptClick() error  { return e.click("script", e.scriptErr) }
func (e *fakeElement) PointerClick() error { return e.click("pointer", e.pointerErr) }
func (e *fakeElement) ScrollIntoView() error {
	return nil
}

func (e *fakeElement) Clear() error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.clearFailures == 0 {
		e.value = ""
	}
	return nil
}

func (e *fakeElement) SelectAllDelete() error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.clearFailures > 0 {
		e.clearFailures--
		return nil
	}
	e.value = ""
	return nil
}

func (e *fakeElement) Type(ctx context.Context, text string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.mangledTypes > 0 {
		e.mangledTypes--
		text = text[:len(text)-1]
	}
	e.value += text
	return nil
}

func (e *fakeElement) Press(string) error { return nil }

func (e *fakeElement) Value() (string, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.value, nil
}

func (e *fakeElement) Text() (string, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.role == "text" {
		if e.s.displayedText != "" {
			return e.s.displayedText, nil
		}
		return "  " + e.s.headline + "\n", nil
	}
	return e.value, nil
}

func (e *fakeElement) Displayed() (bool, error) { return !e.hidden, nil }
func (e *fakeElement) Enabled() (bool, error)   { return true, nil }

// recorder is an Observer that keeps the transitions and strategies it saw.
type recorder struct {
	mu          sync.Mutex
	transitions []State
	strategies  []string
	attempts    map[string]int
	warnings    []string
}

func newRecorder() *recorder {
	return &recorder{attempts: map[string]int{}}
}

func (r *recorder) Transition(_, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, to)
}

func (r *recorder) Attempt(_ State, step string, _, _ int, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[step]++
}

func (r *recorder) Strategy(_ State, name string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, name)
}

func (r *recorder) Info(State, string) {}

func (r *recorder) Warn(_ State, msg string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}
