package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/service"
)

type (
	signInResultMsg struct{ err error }
	resetResultMsg  struct {
		text string
		err  error
	}
	signUpResultMsg struct {
		text string
		err  error
	}
)

// signInScreen holds the sign-in form and the password reset form.
type signInScreen struct {
	auth      *service.AuthService
	scope     scope
	signIn    form
	reset     form
	resetting bool
	loading   bool
	spin      spinner.Model
	err, info string
}

func newSignInScreen(auth *service.AuthService) *signInScreen {
	return &signInScreen{
		auth: auth,
		signIn: newForm(
			field{label: "Nom d'utilisateur"},
			field{label: "Mot de passe", secret: true},
		),
		reset: newForm(
			field{label: "Nom d'utilisateur"},
			field{label: "Nouveau mot de passe", secret: true},
		),
		spin: newSpinner(),
	}
}

func (s *signInScreen) form() *form {
	if s.resetting {
		return &s.reset
	}
	return &s.signIn
}

func (s *signInScreen) Focus(parent context.Context) tea.Cmd {
	s.scope.begin(parent)
	s.loading = false
	s.err, s.info = "", ""
	return s.form().focusFirst()
}

func (s *signInScreen) Blur() {
	s.scope.end()
	s.loading = false
	s.signIn.blur()
	s.reset.blur()
}

func (s *signInScreen) SetSize(int, int) {}
func (s *signInScreen) Capturing() bool  { return true }

func (s *signInScreen) Help() string {
	if s.resetting {
		return "entrée valider · tab champ suivant · échap retour à la connexion"
	}
	return "entrée valider · tab champ suivant · ctrl+r mot de passe oublié · ctrl+←/→ onglets"
}

func (s *signInScreen) Update(msg tea.Msg) tea.Cmd {
	msg, ok := s.scope.unwrap(msg)
	if !ok {
		return nil
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd

	case signInResultMsg:
		s.loading = false
		if msg.err != nil {
			s.err = userMessage(msg.err)
			return nil
		}
		s.signIn.clear()
		return emit(signedInMsg{})

	case resetResultMsg:
		s.loading = false
		if msg.err != nil {
			s.err = userMessage(msg.err)
			return nil
		}
		s.info = msg.text
		s.reset.clear()
		s.resetting = false
		s.reset.blur()
		return s.signIn.focusFirst()

	case tea.KeyMsg:
		if s.loading {
			return nil
		}
		switch msg.String() {
		case "ctrl+r":
			return s.toggleReset()
		case "esc":
			if s.resetting {
				return s.toggleReset()
			}
			return nil
		case "tab", "down":
			return s.form().move(1)
		case "shift+tab", "up":
			return s.form().move(-1)
		case "enter":
			if !s.form().last() {
				return s.form().move(1)
			}
			return s.submit()
		}
	}
	return s.form().update(msg)
}

func (s *signInScreen) toggleReset() tea.Cmd {
	s.form().blur()
	s.resetting = !s.resetting
	s.err, s.info = "", ""
	return s.form().focusFirst()
}

func (s *signInScreen) submit() tea.Cmd {
	s.err, s.info = "", ""
	s.loading = true
	auth := s.auth
	var call tea.Cmd
	if s.resetting {
		username, password := s.reset.value(0), s.reset.value(1)
		call = s.scope.run(func(ctx context.Context) tea.Msg {
			text, err := auth.ResetPassword(ctx, username, password)
			return resetResultMsg{text: text, err: err}
		})
	} else {
		username, password := s.signIn.value(0), s.signIn.value(1)
		call = s.scope.run(func(ctx context.Context) tea.Msg {
			return signInResultMsg{err: auth.SignIn(ctx, username, password)}
		})
	}
	return tea.Batch(s.spin.Tick, call)
}

func (s *signInScreen) View() string {
	var b strings.Builder
	if s.resetting {
		b.WriteString(titleStyle.Render("Réinitialiser le mot de passe") + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("Connexion") + "\n\n")
	}
	b.WriteString(s.form().View())
	b.WriteString("\n")
	if s.loading {
		b.WriteString(s.spin.View() + " " + mutedStyle.Render("Veuillez patienter...") + "\n")
	}
	if s.err != "" {
		b.WriteString(errorStyle.Render(s.err) + "\n")
	}
	if s.info != "" {
		b.WriteString(successStyle.Render(s.info) + "\n")
	}
	if !s.resetting {
		b.WriteString(mutedStyle.Render("Mot de passe oublié ? ctrl+r") + "\n")
	}
	return b.String()
}

type signUpScreen struct {
	auth      *service.AuthService
	scope     scope
	form      form
	loading   bool
	spin      spinner.Model
	err, info string
}

func newSignUpScreen(auth *service.AuthService) *signUpScreen {
	return &signUpScreen{
		auth: auth,
		form: newForm(
			field{label: "Nom d'utilisateur"},
			field{label: "Mot de passe", secret: true},
			field{label: "Confirmer le mot de passe", secret: true},
		),
		spin: newSpinner(),
	}
}

func (s *signUpScreen) Focus(parent context.Context) tea.Cmd {
	s.scope.begin(parent)
	s.loading = false
	s.err, s.info = "", ""
	return s.form.focusFirst()
}

func (s *signUpScreen) Blur() {
	s.scope.end()
	s.loading = false
	s.form.blur()
}

func (s *signUpScreen) SetSize(int, int) {}
func (s *signUpScreen) Capturing() bool  { return true }

func (s *signUpScreen) Help() string {
	return "entrée valider · tab champ suivant · ctrl+←/→ onglets"
}

func (s *signUpScreen) Update(msg tea.Msg) tea.Cmd {
	msg, ok := s.scope.unwrap(msg)
	if !ok {
		return nil
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd

	case signUpResultMsg:
		s.loading = false
		if msg.err != nil {
			s.err = userMessage(msg.err)
			return nil
		}
		s.info = msg.text
		s.form.clear()
		return s.form.focusFirst()

	case tea.KeyMsg:
		if s.loading {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			return s.form.move(1)
		case "shift+tab", "up":
			return s.form.move(-1)
		case "enter":
			if !s.form.last() {
				return s.form.move(1)
			}
			return s.submit()
		}
	}
	return s.form.update(msg)
}

func (s *signUpScreen) submit() tea.Cmd {
	s.err, s.info = "", ""
	s.loading = true
	auth := s.auth
	username, password, confirm := s.form.value(0), s.form.value(1), s.form.value(2)
	return tea.Batch(s.spin.Tick, s.scope.run(func(ctx context.Context) tea.Msg {
		text, err := auth.SignUp(ctx, username, password, confirm)
		return signUpResultMsg{text: text, err: err}
	}))
}

func (s *signUpScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inscription") + "\n\n")
	b.WriteString(s.form.View())
	b.WriteString("\n")
	if s.loading {
		b.WriteString(s.spin.View() + " " + mutedStyle.Render("Veuillez patienter...") + "\n")
	}
	if s.err != "" {
		b.WriteString(errorStyle.Render(s.err) + "\n")
	}
	if s.info != "" {
		b.WriteString(successStyle.Render(s.info) + "\n")
	}
	return b.String()
}

// signOutScreen asks for confirmation before clearing the session.
type signOutScreen struct {
	auth *service.AuthService
}

func newSignOutScreen(auth *service.AuthService) *signOutScreen {
	return &signOutScreen{auth: auth}
}

func (s *signOutScreen) Focus(context.Context) tea.Cmd { return nil }
func (s *signOutScreen) Blur()                         {}
func (s *signOutScreen) SetSize(int, int)              {}

func (s *signOutScreen) Help() string { return "o/entrée oui · n/échap non" }

func (s *signOutScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, confirmKey), km.String() == "o", km.String() == "y":
		// The session is cleared either way; SignOut logs a failed removal.
		_ = s.auth.SignOut()
		return emit(signedOutMsg{})
	case key.Matches(km, cancelKey), km.String() == "n":
		return emit(gotoTabMsg{title: tabHome})
	}
	return nil
}

func (s *signOutScreen) View() string {
	return titleStyle.Render("Déconnexion") + "\n\n" +
		"Voulez-vous vraiment vous déconnecter ?\n\n" +
		accentStyle.Render("[o] Oui") + "   " + mutedStyle.Render("[n] Non") + "\n"
}
