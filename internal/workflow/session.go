package workflow

import (
	"context"
	"time"

	"go-headline-sync/internal/config"
)

// Launcher starts a browser session configured against automation fingerprinting.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is one live browser connection. The workflow is its only user.
type Session interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string

	// Find waits up to timeout for the first match to be attached, visible and enabled.
	Find(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// FindAll returns every current match without waiting.
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Present checks for a match without waiting.
	Present(ctx context.Context, selector string) (bool, error)
	// WaitFirst returns the index of whichever selector matches first.
	WaitFirst(ctx context.Context, selectors []string, timeout time.Duration) (int, error)
	// WaitGone waits until no element matches selector.
	WaitGone(ctx context.Context, selector string, timeout time.Duration) error

	Screenshot(path string) error
	// Close shuts the session down gracefully; Kill is the forced fallback.
	Close() error
	Kill() error
}

// Element is a located DOM node.
type Element interface {
	Click() error
	ScriptClick() error
	PointerClick() error
	ScrollIntoView() error

	Clear() error
	// SelectAllDelete is the keyboard fallback for inputs that ignore Clear.
	SelectAllDelete() error
	// Type enters text; a positive keystroke delay types one character at a time with jitter.
	// Cancelling ctx stops typing between characters.
	Type(ctx context.Context, text string, keystroke time.Duration) error
	Press(key string) error

	Value() (string, error)
	Text() (string, error)
	Displayed() (bool, error)
	Enabled() (bool, error)
}

// CredentialSource supplies the login secrets.
type CredentialSource interface {
	Credentials() (config.Credentials, error)
}
