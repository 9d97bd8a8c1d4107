package linkedin

import (
	"context"
	"log"
	"strings"

	"go-linkedin-applicants/internal/config"
)

type Authenticator struct {
	LoginURL      string
	SuccessMarker string
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{
		LoginURL:      LoginURL,
		SuccessMarker: loginSuccessMarker,
	}
}

// Authenticate logs in with creds and waits for the redirect to the feed.
// There is no retry; every failure is an *AuthError.
func (a *Authenticator) Authenticate(ctx context.Context, sess *Session, creds config.Credentials) error {
	log.Println("🔐 Logging in to LinkedIn...")
	if err := sess.Page.Goto(a.LoginURL); err != nil {
		return a.fail(sess, "could not open login page", err)
	}

	//cookies from a previous session may already land us on the feed
	if a.loggedIn(sess) {
		log.Println("✅ Session still valid, skipping login form.")
		return nil
	}

	username, err := sess.waitForElement(ctx, "username field", sess.Page, usernameChain)
	if err != nil {
		return a.fail(sess, "username field not found", err)
	}
	if err := username.Fill(creds.Identity); err != nil {
		return a.fail(sess, "could not fill username", err)
	}

	password, _, err := passwordChain.Resolve(sess.Page)
	if err != nil {
		return a.fail(sess, "password field not found", err)
	}
	if err := password.Fill(creds.Secret); err != nil {
		return a.fail(sess, "could not fill password", err)
	}

	submit, _, err := submitChain.Resolve(sess.Page)
	if err != nil {
		return a.fail(sess, "login button not found", err)
	}
	if err := submit.Click(); err != nil {
		return a.fail(sess, "could not submit login form", err)
	}

	err = sess.waitFor(ctx, "redirect to "+a.SuccessMarker, func() (bool, error) {
		return a.loggedIn(sess), nil
	})
	if err != nil {
		return a.fail(sess, "login was not confirmed", err)
	}

	log.Println("✅ Successfully logged in to LinkedIn")
	return nil
}

func (a *Authenticator) loggedIn(sess *Session) bool {
	return strings.Contains(sess.Page.URL(), a.SuccessMarker)
}

func (a *Authenticator) fail(sess *Session, msg string, cause error) error {
	log.Printf("❌ Login failed: %s: %v", msg, cause)
	sess.screenshot("linkedin-login-failed")
	return &AuthError{Message: msg, Cause: cause}
}
