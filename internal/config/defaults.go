package config

import "time"

const (
	DefaultLoginURL   = "https://www.naukri.com/nlogin/login"
	DefaultProfileURL = "https://www.naukri.com/mnjuser/profile"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"
	DefaultRetries    = 3
)

// DefaultSelectors targets the profile page markup as of the last working run.
func DefaultSelectors() Selectors {
	return Selectors{
		UsernameField:      "//input[@id='usernameField']",
		PasswordField:      "//input[@id='passwordField']",
		LoginButton:        "//button[@type='submit']",
		LoginPrompt:        "//button[contains(text(), 'Login')]",
		HeadlineSection:    "//div[contains(@class, 'resumeHeadline')]",
		HeadlineEditButton: "//div[contains(@class, 'resumeHeadline')]//span[contains(@class, 'edit')]",
		HeadlineTextarea:   "//div[contains(@class, 'ltCont')]//textarea",
		HeadlineDialog:     "//div[contains(@class, 'ltCont')]",
		SaveButton:         "//button[normalize-space()='Save']",
		SaveButtonAlt:      "//button[contains(text(), 'Save')]",
		SuccessMessage:     "//div[text()='Success']//following-sibling::div[contains(text(), 'successfully saved')]",
		HeadlineText:       "//div[contains(@class, 'resumeHeadline')]//div[contains(@class, 'text')]",
		ChallengeIndicators: []string{
			"//iframe[contains(@src, 'captcha')]",
			"//div[contains(@class, 'captcha')]",
			"//*[@id='recaptcha']",
			"//iframe[contains(@title, 'challenge')]",
		},
		AuthErrorIndicators: []string{
			"//*[contains(@class, 'erLbl') and contains(., 'Invalid')]",
			"//*[contains(@class, 'server-err')]",
		},
	}
}

// ApplyDefaults fills every zero field with the value the workflow was tuned against.
func (c *Config) ApplyDefaults() {
	if c.LoginURL == "" {
		c.LoginURL = DefaultLoginURL
	}
	if c.ProfileURL == "" {
		c.ProfileURL = DefaultProfileURL
	}
	if c.Interactive == "" {
		c.Interactive = InteractiveAuto
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "logs/screenshots"
	}
	if c.HistoryPath == "" {
		c.HistoryPath = "logs/history.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = "logs/headline-sync.log"
	}
	if c.RunTimeout == 0 {
		c.RunTimeout = Duration(10 * time.Minute)
	}

	setDuration(&c.Waits.WebDriver, 30*time.Second)
	setDuration(&c.Waits.Login, 5*time.Second)
	setDuration(&c.Waits.PageLoad, 5*time.Second)
	setDuration(&c.Waits.Animation, 2*time.Second)
	setDuration(&c.Waits.Input, time.Second)
	setDuration(&c.Waits.Challenge, 120*time.Second)
	setDuration(&c.Waits.Poll, 500*time.Millisecond)
	setDuration(&c.Waits.Keystroke, 120*time.Millisecond)

	def := DefaultSelectors()
	s := &c.Selectors
	setString(&s.UsernameField, def.UsernameField)
	setString(&s.PasswordField, def.PasswordField)
	setString(&s.LoginButton, def.LoginButton)
	setString(&s.LoginPrompt, def.LoginPrompt)
	setString(&s.HeadlineSection, def.HeadlineSection)
	setString(&s.HeadlineEditButton, def.HeadlineEditButton)
	setString(&s.HeadlineTextarea, def.HeadlineTextarea)
	setString(&s.HeadlineDialog, def.HeadlineDialog)
	setString(&s.SaveButton, def.SaveButton)
	setString(&s.SaveButtonAlt, def.SaveButtonAlt)
	setString(&s.SuccessMessage, def.SuccessMessage)
	setString(&s.HeadlineText, def.HeadlineText)
	if s.ChallengeIndicators == nil {
		s.ChallengeIndicators = def.ChallengeIndicators
	}
	if s.AuthErrorIndicators == nil {
		s.AuthErrorIndicators = def.AuthErrorIndicators
	}
}

func setDuration(d *Duration, v time.Duration) {
	if *d == 0 {
		*d = Duration(v)
	}
}

func setString(s *string, v string) {
	if *s == "" {
		*s = v
	}
}
