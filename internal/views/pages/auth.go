package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LoginPartial renders the sign-in form alone, for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writeAll(w,
			`<section id="auth"><h1>Sign in</h1>`,
			alert(message),
			`<form method="post" action="/login" hx-post="/login" hx-target="#auth" hx-swap="outerHTML">`,
			`<label>Email <input type="email" name="email" required value="`, templ.EscapeString(email), `"></label>`,
			`<label>Password <input type="password" name="password" required></label>`,
			`<button type="submit">Sign in</button></form>`,
			`<p><a href="/signup">Create an account</a></p></section>`,
		)
	})
}

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return document("Sign in", LoginPartial(message, email))
}

// SignupPartial renders the registration form alone, for HTMX swaps.
func SignupPartial(message, name, email string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writeAll(w,
			`<section id="auth"><h1>Create your cellar</h1>`,
			alert(message),
			`<form method="post" action="/signup" hx-post="/signup" hx-target="#auth" hx-swap="outerHTML">`,
			`<label>Name <input type="text" name="name" value="`, templ.EscapeString(name), `"></label>`,
			`<label>Email <input type="email" name="email" required value="`, templ.EscapeString(email), `"></label>`,
			`<label>Password <input type="password" name="password" minlength="8" required></label>`,
			`<label>Confirm password <input type="password" name="confirm_password" minlength="8" required></label>`,
			`<button type="submit">Create account</button></form>`,
			`<p><a href="/login">Already registered? Sign in</a></p></section>`,
		)
	})
}

// Signup renders the full registration page.
func Signup(message, name, email string) templ.Component {
	return document("Create account", SignupPartial(message, name, email))
}
